package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrProvider  = "provider"
	AttrNamespace = "namespace"
	AttrOutcome   = "outcome"
	AttrStatus    = "status"
)

// Cache lookup outcomes.
const (
	OutcomeHit      = "hit"
	OutcomeStale    = "stale"
	OutcomeMiss     = "miss"
	OutcomeError    = "error"
	OutcomeDisabled = "disabled"
)

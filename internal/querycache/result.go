package querycache

import "time"

// Status is the lifecycle state of a cache entry as seen by a consumer.
type Status int

const (
	// StatusIdle means no entry exists and nothing was fetched.
	StatusIdle Status = iota
	// StatusLoading means the first fetch for the key is outstanding.
	StatusLoading
	// StatusSuccess means Data holds a fetched value.
	StatusSuccess
	// StatusError means the first fetch failed; Err holds the cause.
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Result is a point-in-time copy of one entry.
//
// A success entry whose background refresh failed keeps StatusSuccess and its
// previous Data, with Err set to the refresh failure.
type Result[V any] struct {
	Status     Status
	Data       V
	Err        error
	FetchedAt  time.Time
	IsStale    bool
	IsFetching bool
}

// HasData reports whether Data holds a fetched value.
func (r Result[V]) HasData() bool {
	return r.Status == StatusSuccess
}

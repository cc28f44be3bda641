package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/preston-bernstein/league-catalog/internal/app/leagues"
	"github.com/preston-bernstein/league-catalog/internal/catalog"
	"github.com/preston-bernstein/league-catalog/internal/config"
	domainleagues "github.com/preston-bernstein/league-catalog/internal/domain/leagues"
	"github.com/preston-bernstein/league-catalog/internal/logging"
	"github.com/preston-bernstein/league-catalog/internal/querycache"
	"github.com/preston-bernstein/league-catalog/internal/session"
	"github.com/preston-bernstein/league-catalog/internal/tui"
)

// Swapped in tests.
var (
	isTerminal = func(w io.Writer) bool {
		f, ok := w.(*os.File)
		return ok && term.IsTerminal(int(f.Fd()))
	}
	runTUI = func(ctx context.Context, svc *leagues.Service, revalidate time.Duration) error {
		return tui.Run(ctx, svc, tui.WithRevalidateInterval(revalidate))
	}
)

// execute runs the CLI and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, cfg config.Config) int {
	root := newRootCmd(stdout, stderr, cfg)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer, cfg config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Short:   "Browse sports leagues and their badges",
		Long:    "catalog lists sports leagues from TheSportsDB, filters them by name or sport, and shows league badges.",
		Version: appVersion,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(stdout) {
				return withSession(cmd.Context(), cfg, stderr, true, func(ctx context.Context, svc *leagues.Service) error {
					return runTUI(ctx, svc, cfg.Cache.Leagues.StaleAfter)
				})
			}
			return withSession(cmd.Context(), cfg, stderr, false, func(ctx context.Context, svc *leagues.Service) error {
				return printLeagues(stdout, svc.Browse(ctx, catalog.FilterState{}), false)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newLeaguesCmd(stdout, stderr, cfg))
	cmd.AddCommand(newSportsCmd(stdout, stderr, cfg))
	cmd.AddCommand(newBadgeCmd(stdout, stderr, cfg))
	return cmd
}

func newLeaguesCmd(stdout, stderr io.Writer, cfg config.Config) *cobra.Command {
	var (
		state      catalog.FilterState
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "leagues",
		Short: "List leagues, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), cfg, stderr, false, func(ctx context.Context, svc *leagues.Service) error {
				return printLeagues(stdout, svc.Browse(ctx, state), jsonOutput)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().StringVarP(&state.Search, "search", "s", "", "Match league or alternate names (case-insensitive)")
	cmd.Flags().StringVar(&state.Category, "sport", "", "Only show leagues of this sport")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func newSportsCmd(stdout, stderr io.Writer, cfg config.Config) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "sports",
		Short: "List the sports present in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), cfg, stderr, false, func(ctx context.Context, svc *leagues.Service) error {
				page := svc.Browse(ctx, catalog.FilterState{})
				if err := pageErr(page); err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(stdout, page.Categories)
				}
				for _, c := range page.Categories {
					_, _ = fmt.Fprintln(stdout, c)
				}
				return nil
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

type badgeOutput struct {
	LeagueID string `json:"leagueId"`
	Found    bool   `json:"found"`
	Season   string `json:"season,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func newBadgeCmd(stdout, stderr io.Writer, cfg config.Config) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "badge <league-id>",
		Short: "Show the current badge of a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return withSession(cmd.Context(), cfg, stderr, false, func(ctx context.Context, svc *leagues.Service) error {
				svc.Reveal(id)
				state := svc.Badge(ctx, id)
				if state.Status == querycache.StatusError {
					return fmt.Errorf("load badge for league %s: %w", id, state.Err)
				}
				out := badgeOutput{LeagueID: id, Found: state.Found, Season: state.Badge.Season, ImageURL: state.Badge.ImageURL}
				if jsonOutput {
					return writeJSON(stdout, out)
				}
				return printBadge(stdout, out)
			})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

// withSession builds the logger and session, then runs fn against the service.
// The TUI owns the terminal, so interactive runs log to LOG_FILE or nowhere.
func withSession(ctx context.Context, cfg config.Config, stderr io.Writer, interactive bool, fn func(context.Context, *leagues.Service) error) error {
	logger, closeLog, err := newLogger(cfg.Log, stderr, interactive)
	if err != nil {
		return err
	}
	defer closeLog()

	return session.New(cfg, logger).Run(ctx, fn)
}

func newLogger(cfg config.LogConfig, stderr io.Writer, interactive bool) (*slog.Logger, func(), error) {
	out := stderr
	closeLog := func() {}
	if interactive {
		if cfg.File == "" {
			return logging.Discard(), closeLog, nil
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}
	logger := logging.NewLogger(logging.Config{
		Level:   cfg.Level,
		Format:  cfg.Format,
		Service: "league-catalog",
		Version: appVersion,
		Output:  out,
	})
	return logger, closeLog, nil
}

type leaguesOutput struct {
	Total   int                    `json:"total"`
	Count   int                    `json:"count"`
	Leagues []domainleagues.League `json:"leagues"`
}

func printLeagues(w io.Writer, page leagues.Page, jsonOutput bool) error {
	if err := pageErr(page); err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(w, leaguesOutput{Total: page.Total, Count: page.Count, Leagues: page.Leagues})
	}

	if page.Count == 0 {
		if page.State.IsZero() {
			_, _ = fmt.Fprintln(w, "No leagues available.")
		} else {
			_, _ = fmt.Fprintln(w, "No leagues match your filters.")
		}
		return nil
	}
	for _, l := range page.Leagues {
		line := fmt.Sprintf("%-6s %-32s %s", l.ID, l.DisplayName, l.Category)
		if l.AlternateName != "" {
			line += " (" + l.AlternateName + ")"
		}
		_, _ = fmt.Fprintln(w, line)
	}
	_, _ = fmt.Fprintf(w, "\nShowing %d of %d leagues\n", page.Count, page.Total)
	return nil
}

func printBadge(w io.Writer, b badgeOutput) error {
	switch {
	case !b.Found:
		_, err := fmt.Fprintf(w, "No badge for league %s\n", b.LeagueID)
		return err
	case b.ImageURL == "":
		_, err := fmt.Fprintf(w, "%s: season %s has no image\n", b.LeagueID, b.Season)
		return err
	default:
		_, err := fmt.Fprintf(w, "%s: season %s %s\n", b.LeagueID, b.Season, b.ImageURL)
		return err
	}
}

func pageErr(page leagues.Page) error {
	if page.Status == querycache.StatusError {
		return fmt.Errorf("load leagues: %w", page.Err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

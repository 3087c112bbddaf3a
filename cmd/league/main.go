// Command league runs the Ramadan football league: the HTTP service and a few admin tasks
// against the same database file.
//
// Usage:
//
//	league serve
//	league standings --day 12
//	league validate
//	league recalc
//	league result <match-id> <home-goals> <away-goals> --best-player "Name"
//	league fixtures
//	league phase
//	league bracket --html
//	league hash-password <password>
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	league "github.com/justinjudd/league"
	"github.com/justinjudd/league/api"
	"github.com/justinjudd/league/config"
	"github.com/justinjudd/league/models"
	"github.com/justinjudd/league/models/storm"
	"github.com/justinjudd/league/tournament"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	root := &cobra.Command{
		Use:           "league",
		Short:         "Ramadan football league",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(recalcCmd())
	root.AddCommand(resultCmd())
	root.AddCommand(fixturesCmd())
	root.AddCommand(phaseCmd())
	root.AddCommand(bracketCmd())
	root.AddCommand(hashPasswordCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

type engines struct {
	season   *tournament.Season
	playoffs *tournament.Playoffs
}

// runLeague opens the configured store and hands the engines to fn
func runLeague(fn func(ctx context.Context, cfg *config.Config, e engines) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := storm.NewStorageEngine(cfg.DBPath, cfg.DBCodec, cfg.DBTimeout)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	return fn(ctx, cfg, engines{
		season:   tournament.NewSeason(store, cfg.Rules, logger),
		playoffs: tournament.NewPlayoffs(store, cfg.Rules, logger),
	})
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the league API and pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				if !cfg.AdminEnabled() {
					logger.Warn("LEAGUE_ADMIN_PASSWORD_HASH is not set, admin endpoints are disabled")
				}
				srv := api.New(e.season, e.playoffs, api.Options{
					AdminPasswordHash: cfg.AdminPasswordHash,
					CORSAllowOrigins:  cfg.CORSAllowOrigins,
					Logger:            logger,
				})
				server := &http.Server{
					Addr:         cfg.HTTPAddr,
					Handler:      srv.Handler(),
					ReadTimeout:  10 * time.Second,
					WriteTimeout: 10 * time.Second,
					IdleTimeout:  120 * time.Second,
					ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
				}

				g, gCtx := errgroup.WithContext(ctx)
				g.Go(func() error {
					logger.Info("starting server", slog.String("address", server.Addr))
					if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					return srv.SweepLoop(gCtx, 10*time.Minute)
				})
				g.Go(func() error {
					<-gCtx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
					defer cancel()
					logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
					return server.Shutdown(shutdownCtx)
				})
				if err := g.Wait(); err != nil {
					return err
				}
				logger.Info("server stopped")
				return nil
			})
		},
	}
}

func standingsCmd() *cobra.Command {
	var day int
	var html bool
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Print the league table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				table, err := e.season.Standings()
				caption := "Standings"
				if day != 0 {
					table, err = e.season.StandingsAsOf(day)
					caption = fmt.Sprintf("Standings after day %d", day)
				}
				if err != nil {
					return err
				}
				if html {
					out, err := league.StandingsHTML(caption, table)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(out)
					return err
				}
				return printStandings(cmd.OutOrStdout(), table)
			})
		},
	}
	cmd.Flags().IntVar(&day, "day", 0, "Table as it stood after this Ramadan day")
	cmd.Flags().BoolVar(&html, "html", false, "Render as HTML")
	return cmd
}

func printStandings(w io.Writer, table tournament.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tTeam\tP\tW\tD\tL\tGF\tGA\tGD\tPts\tForm\t")
	for _, r := range table.Rows {
		marker := ""
		if r.Qualified {
			marker = "*"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\t\n",
			r.Position, marker, r.Name, r.Played, r.Won, r.Drawn, r.Lost,
			r.GoalsFor, r.GoalsAgainst, r.GoalDifference, r.Points, strings.Join(r.Form, ""))
	}
	if table.Skipped > 0 {
		fmt.Fprintf(tw, "\n%d played matches skipped: unknown team\t\n", table.Skipped)
	}
	return tw.Flush()
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the teams and matches form a complete round robin",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				report, err := e.season.Validate()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok: %d teams, %d matches, %d played (%.0f%%)\n",
					report.Teams, report.Matches, report.Played, report.Completion*100)
				return nil
			})
		},
	}
}

func recalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc",
		Short: "Rebuild every team's statistics from the played matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				return e.season.RecalculateStatistics()
			})
		},
	}
}

func resultCmd() *cobra.Command {
	var bestPlayer string
	cmd := &cobra.Command{
		Use:   "result <match-id> <home-goals> <away-goals>",
		Short: "Record the final score of a group match",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := tournament.ParseGoals(args[1])
			if err != nil {
				return err
			}
			away, err := tournament.ParseGoals(args[2])
			if err != nil {
				return err
			}
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				m, err := e.season.RecordResult(args[0], home, away, bestPlayer)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "day %d: %s %d-%d %s\n", m.Day, m.HomeTeam, home, away, m.AwayTeam)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&bestPlayer, "best-player", "", "Player of the match")
	return cmd
}

func fixturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures",
		Short: "Generate the round robin schedule for the registered teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				matches, err := e.season.GenerateFixtures()
				if err != nil {
					return err
				}
				teams, err := e.season.Teams()
				if err != nil {
					return err
				}
				names := league.TeamNames(teams)
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				for _, m := range matches {
					fmt.Fprintf(tw, "day %d\t%s\t%s v %s\n", m.Day, m.ScheduledTime, names[m.HomeTeam], names[m.AwayTeam])
				}
				return tw.Flush()
			})
		},
	}
}

func phaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase",
		Short: "Print the tournament phase",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				phase, err := e.playoffs.Phase()
				if err != nil {
					return err
				}
				eligible, completion, err := e.playoffs.Eligible()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (group stage %.0f%% played, playoffs eligible: %t)\n", phase, completion*100, eligible)
				return nil
			})
		},
	}
}

func bracketCmd() *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Print the playoff bracket",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLeague(func(ctx context.Context, cfg *config.Config, e engines) error {
				b, err := e.playoffs.Bracket()
				if err != nil {
					return err
				}
				teams, err := e.season.Teams()
				if err != nil {
					return err
				}
				names := league.TeamNames(teams)
				if html {
					out, err := league.BracketHTML("Playoffs", b, names)
					if err != nil {
						return err
					}
					_, err = cmd.OutOrStdout().Write(out)
					return err
				}
				return printBracket(cmd.OutOrStdout(), b, names)
			})
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "Render as HTML")
	return cmd
}

func printBracket(w io.Writer, b *models.Bracket, names map[string]string) error {
	name := func(id string) string {
		if id == "" {
			return "TBD"
		}
		return names[id]
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	matches := append(append([]models.BracketMatch(nil), b.Semifinals...), b.ThirdPlace, b.Final)
	for _, m := range matches {
		score := ""
		if m.HomeGoals != nil && m.AwayGoals != nil {
			score = fmt.Sprintf("%d-%d", *m.HomeGoals, *m.AwayGoals)
			if m.Penalty != nil {
				score += " (pens " + string(m.Penalty.Winner) + ")"
			}
		}
		fmt.Fprintf(tw, "%s\t%s v %s\t%s\t%s\n", m.ID, name(m.HomeTeam), name(m.AwayTeam), m.Status, score)
	}
	fmt.Fprintf(tw, "phase\t%s\n", b.TournamentPhase)
	if b.Champion != "" {
		fmt.Fprintf(tw, "champion\t%s\n", name(b.Champion))
	}
	return tw.Flush()
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to use as LEAGUE_ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := api.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

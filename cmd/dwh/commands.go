package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wakala/dwh/internal/api"
	"github.com/wakala/dwh/internal/config"
	"github.com/wakala/dwh/internal/domain"
	"github.com/wakala/dwh/internal/logger"
	"github.com/wakala/dwh/internal/propagation"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "dwh",
		Short:         "Regulatory data warehouse pipeline",
		Long:          `dwh loads bank records through the staging, canonical, warehouse and mart layers and computes the N1 ratios.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfg.Driver, "driver", cfg.Driver, "store driver: postgres, pgx or sqlite")
	rootCmd.PersistentFlags().StringVar(&cfg.DSN, "dsn", cfg.DSN, "store connection string (overrides DB_* settings)")

	rootCmd.AddCommand(
		newIngestCmd(cfg),
		newPropagateCmd(cfg, "canonical", domain.LayerStaging),
		newPropagateCmd(cfg, "warehouse", domain.LayerCanonical),
		newAggregateCmd(cfg),
		newMartCmd(cfg),
		newRunCmd(cfg),
		newServeCmd(cfg),
	)
	return rootCmd
}

func newIngestCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest [entity...]",
		Short: "Load entity files into the staging layer",
		Long:  `Load the configured file of each entity (clients, companies, bank, capital, assets, liabilities or all) into staging.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entities, err := domain.ParseEntities(strings.Join(args, ","))
			if err != nil {
				return usageError{err}
			}

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			_, err = a.ingestion().IngestAll(cmd.Context(), cfg.Paths, entities)
			return err
		},
	}
}

type propagateFlags struct {
	mode   string
	entity string
	date   string
}

func (f *propagateFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "", "snapshot selection: current, history or date")
	cmd.Flags().StringVarP(&f.entity, "entity", "e", "all", "entity to propagate, or all")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "force-load the snapshots of this date (YYYY-MM-DD)")
}

func newPropagateCmd(cfg *config.Config, name string, from domain.Layer) *cobra.Command {
	var flags propagateFlags
	to, _ := from.Next()
	cmd := &cobra.Command{
		Use:   name,
		Short: "Propagate " + string(from) + " rows into the " + string(to) + " layer",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := propagation.ParseRequest(flags.mode, flags.entity, flags.date, today())
			if err != nil {
				return usageError{err}
			}

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			svc, err := a.propagation(from)
			if err != nil {
				return err
			}
			_, err = svc.Run(cmd.Context(), req)
			return err
		},
	}
	flags.bind(cmd)
	return cmd
}

func newAggregateCmd(cfg *config.Config) *cobra.Command {
	var (
		date, from, to string
		step           int
	)
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Build the warehouse common data for a date or a range of dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			single, start, end, err := parseDays(date, from, to)
			if err != nil {
				return usageError{err}
			}
			if step < 1 {
				return usageError{errors.New("--step must be positive")}
			}

			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			b, err := a.builder()
			if err != nil {
				return err
			}
			if single != nil {
				_, err = b.Build(cmd.Context(), *single)
				return err
			}
			_, err = b.BuildRange(cmd.Context(), start, end, step)
			return err
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date to build (default today)")
	cmd.Flags().StringVar(&from, "from", "", "first date of a range")
	cmd.Flags().StringVar(&to, "to", "", "last date of a range")
	cmd.Flags().IntVar(&step, "step", 1, "days between built dates in a range")
	cmd.Flags().IntVar(&cfg.DeltaDays, "delta-days", cfg.DeltaDays, "lookback window when a date has no snapshot")
	return cmd
}

// parseDays returns either a single date or a from/to range.
func parseDays(date, from, to string) (*domain.Date, domain.Date, domain.Date, error) {
	if from == "" && to == "" {
		d := today()
		if date != "" {
			var err error
			if d, err = domain.ParseDate(date); err != nil {
				return nil, domain.Date{}, domain.Date{}, err
			}
		}
		return &d, domain.Date{}, domain.Date{}, nil
	}
	if date != "" || from == "" || to == "" {
		return nil, domain.Date{}, domain.Date{}, errors.New("use either --date or both --from and --to")
	}
	start, err := domain.ParseDate(from)
	if err != nil {
		return nil, domain.Date{}, domain.Date{}, err
	}
	end, err := domain.ParseDate(to)
	if err != nil {
		return nil, domain.Date{}, domain.Date{}, err
	}
	return nil, start, end, nil
}

func bindStandards(cmd *cobra.Command, cfg *config.Config) func() error {
	var n10, n11, n12 string
	cmd.Flags().StringVar(&n10, "standard-n1-0", "", "regulator threshold for N1.0")
	cmd.Flags().StringVar(&n11, "standard-n1-1", "", "regulator threshold for N1.1")
	cmd.Flags().StringVar(&n12, "standard-n1-2", "", "regulator threshold for N1.2")
	return func() error {
		for _, s := range []struct {
			flag string
			dst  *decimal.Decimal
		}{{n10, &cfg.Standards.N1_0}, {n11, &cfg.Standards.N1_1}, {n12, &cfg.Standards.N1_2}} {
			if s.flag == "" {
				continue
			}
			d, err := decimal.NewFromString(s.flag)
			if err != nil {
				return err
			}
			*s.dst = d
		}
		return nil
	}
}

func newMartCmd(cfg *config.Config) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "mart",
		Short: "Compute the N1 ratios into the mart for one date or every aggregated date",
	}
	applyStandards := bindStandards(cmd, cfg)
	cmd.Flags().StringVarP(&date, "date", "d", "", "date to compute (default every date not yet in the mart)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := applyStandards(); err != nil {
			return usageError{err}
		}
		var day *domain.Date
		if date != "" {
			d, err := domain.ParseDate(date)
			if err != nil {
				return usageError{err}
			}
			day = &d
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		if day != nil {
			_, err = a.writer().Write(cmd.Context(), *day)
			return err
		}
		_, err = a.writer().WriteAll(cmd.Context())
		return err
	}
	return cmd
}

func newRunCmd(cfg *config.Config) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the whole pipeline for one date",
		Long: `Ingest every configured file, propagate through canonical and warehouse,
build the common data and compute the ratios. Without --date the run date is today
and snapshots follow the watermark; with --date they are force-loaded for that date.`,
	}
	applyStandards := bindStandards(cmd, cfg)
	cmd.Flags().StringVarP(&date, "date", "d", "", "date to run for (YYYY-MM-DD)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		if err := applyStandards(); err != nil {
			return usageError{err}
		}
		req, err := propagation.ParseRequest("", "all", date, today())
		if err != nil {
			return usageError{err}
		}

		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		if _, err := a.ingestion().IngestAll(ctx, cfg.Paths, domain.AllEntities); err != nil {
			return err
		}
		for _, from := range []domain.Layer{domain.LayerStaging, domain.LayerCanonical} {
			svc, err := a.propagation(from)
			if err != nil {
				return err
			}
			if _, err := svc.Run(ctx, req); err != nil {
				return err
			}
		}
		b, err := a.builder()
		if err != nil {
			return err
		}
		if _, err := b.Build(ctx, req.Date); err != nil {
			return err
		}
		_, err = a.writer().Write(ctx, req.Date)
		return err
	}
	return cmd
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reporting API and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cfg)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.APIAddr,
				Handler:           api.NewRouter(a.store, a.metrics),
				ReadHeaderTimeout: 10 * time.Second,
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				logger.Info("[api] Listening on %s", cfg.APIAddr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				logger.Info("[api] Shutting down")
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
	cmd.Flags().StringVar(&cfg.APIAddr, "addr", cfg.APIAddr, "listen address")
	return cmd
}

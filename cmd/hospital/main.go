package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/hospital/internal/config"
	"github.com/ehr/hospital/internal/domain/hospital"
	"github.com/ehr/hospital/internal/platform/metrics"
	"github.com/ehr/hospital/internal/platform/persistence"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the flag values shared by every subcommand.
type app struct {
	dataDir string
	backend string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:          "hospital",
		Short:        "Hospital record store: patients, doctors, departments and appointments",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Directory holding the record files (overrides DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&a.backend, "backend", "", "Store backend: file, memory, sqlite, postgres (overrides STORE_BACKEND)")

	rootCmd.AddCommand(patientCmd(a))
	rootCmd.AddCommand(doctorCmd(a))
	rootCmd.AddCommand(departmentCmd(a))
	rootCmd.AddCommand(appointmentCmd(a))
	rootCmd.AddCommand(summaryCmd(a))
	rootCmd.AddCommand(transferCmd(a))
	return rootCmd
}

// session is one opened store plus everything needed to shut it down.
type session struct {
	cfg     *config.Config
	log     zerolog.Logger
	store   *hospital.Store
	metrics *metrics.Store
}

// loadConfig reads the configuration and applies command line overrides.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.backend != "" {
		cfg.StoreBackend = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func (a *app) open(cmd *cobra.Command) (*session, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())

	ctx := cmd.Context()
	backend, err := persistence.Open(ctx, cfg.Backend())
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", cfg.StoreBackend, err)
	}

	m := metrics.NewStore()
	opts := []hospital.Option{
		hospital.WithLogger(logger),
		hospital.WithRecorder(m),
		hospital.WithIDGenerator(hospital.NewIDGenerator(hospital.IDScheme(cfg.IDScheme), nil)),
	}
	if cfg.LegacyTransitions {
		opts = append(opts, hospital.WithLegacyTransitions())
	}
	store, err := hospital.Open(ctx, backend, opts...)
	if err != nil {
		if cerr := backend.Close(); cerr != nil {
			logger.Error().Err(cerr).Msg("failed to close backend")
		}
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Debug().Str("backend", cfg.StoreBackend).Msg("record store opened")
	return &session{cfg: cfg, log: logger, store: store, metrics: m}, nil
}

func (s *session) close(ctx context.Context) {
	s.store.Close(ctx)
	if err := s.metrics.WriteTextfile(s.cfg.MetricsFile); err != nil {
		s.log.Error().Err(err).Str("path", s.cfg.MetricsFile).Msg("failed to write metrics textfile")
	}
}

// storeRunE opens the store, runs fn and closes the store again. When
// mutates is set the records are saved first and a save failure fails the
// command.
func (a *app) storeRunE(mutates bool, fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := a.open(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer s.close(ctx)

		if err := fn(cmd, args, s); err != nil {
			return err
		}
		if mutates {
			if err := s.store.Save(ctx); err != nil {
				return fmt.Errorf("save records: %w", err)
			}
		}
		return nil
	}
}

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"gptlink/internal/config"
	"gptlink/internal/database"
	"gptlink/internal/logging"
	"gptlink/internal/repositories"
	"gptlink/internal/services"
)

type options struct {
	dbPath  string
	verbose bool
	format  string
}

// stack is what every subcommand works against.
type stack struct {
	prefs  services.PreferenceService
	models services.ModelConfigService
	close  func() error
}

func openStack(ctx context.Context, opts *options, logger *log.Logger) (*stack, error) {
	db, err := database.Init(database.Config{Path: opts.dbPath, Logger: logger})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	prefs := services.NewPreferenceService(repositories.NewKVRepository(db), nil, logger)
	if _, err := prefs.Load(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	models := services.NewModelConfigService(repositories.NewModelSettingRepository(db))
	if err := models.Startup(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return &stack{prefs: prefs, models: models, close: sqlDB.Close}, nil
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	var logger *log.Logger

	root := &cobra.Command{
		Use:           "gptlink-prefs",
		Short:         "Inspect and edit gptlink preferences",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger = logging.New(cmd.ErrOrStderr(), level)
		},
	}
	root.SetOut(out)

	cfg := config.FromEnv()
	root.PersistentFlags().StringVar(&opts.dbPath, "db", cfg.DBPath, "path to the gptlink database")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	run := func(fn func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			s, err := openStack(ctx, opts, logger)
			if err != nil {
				return err
			}
			defer s.close()
			return fn(ctx, cmd, s, args)
		}
	}

	root.AddCommand(
		newShowCmd(opts, run),
		newSetCmd(opts, run),
		newResetCmd(opts, run),
		newModelsCmd(opts, run),
	)
	return root
}

type runner func(fn func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error) func(*cobra.Command, []string) error

// Execute runs the CLI against stdout.
func Execute() error {
	root := NewRootCmd(os.Stdout)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gptlink/internal/models"
)

func newShowCmd(opts *options, run runner) *cobra.Command {
	c := &cobra.Command{
		Use:   "show",
		Short: "Print the stored preferences",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error {
			return writePreferences(cmd.OutOrStdout(), s.prefs.Get(), opts.format)
		}),
	}
	c.Flags().StringVarP(&opts.format, "output", "o", "yaml", "output format (yaml|json)")
	return c
}

func newSetCmd(opts *options, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "set <theme|language|model|login-type|app-config> <value>",
		Short: "Change one preference",
		Long: `Change one preference and persist the snapshot.

app-config takes a JSON object; its login_type also becomes the login type.`,
		Args: cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error {
			field, value := strings.ToLower(args[0]), args[1]
			var (
				prefs models.Preferences
				err   error
			)
			switch field {
			case "theme":
				prefs, err = s.prefs.SetTheme(ctx, models.ThemeMode(value))
			case "language":
				prefs, err = s.prefs.SetLanguage(ctx, models.Language(value))
			case "model":
				prefs, err = s.prefs.SetModel(ctx, models.ModelType(value))
			case "login-type":
				prefs, err = s.prefs.SetLoginType(ctx, models.LoginType(value))
			case "app-config":
				cfg, decodeErr := models.DecodeAppConfig([]byte(value))
				if decodeErr != nil {
					return fmt.Errorf("app-config must be a JSON object: %w", decodeErr)
				}
				prefs, err = s.prefs.SetAppConfig(ctx, cfg)
			default:
				return fmt.Errorf("unknown preference %q", args[0])
			}
			if err != nil {
				return err
			}
			return writePreferences(cmd.OutOrStdout(), prefs, "yaml")
		}),
	}
}

func newResetCmd(opts *options, run runner) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore default preferences",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, s *stack, args []string) error {
			prefs, err := s.prefs.Reset(ctx)
			if err != nil {
				return err
			}
			return writePreferences(cmd.OutOrStdout(), prefs, "yaml")
		}),
	}
}

func writePreferences(w io.Writer, prefs models.Preferences, format string) error {
	switch strings.ToLower(format) {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(prefs); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(prefs)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

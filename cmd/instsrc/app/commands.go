// Package app provides the command line interface of the installation source manager.
package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/instsrc/internal/config"
	"github.com/stacklok/instsrc/internal/versions"
)

// EnvPrefix prefixes the environment variables read by the CLI
const EnvPrefix = "INSTSRC"

// NewRootCmd creates the root command with all subcommands.
// Flags are bound to a viper instance owned by the command tree, so
// --config and --root can also be given as INSTSRC_CONFIG and INSTSRC_ROOT.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:               "instsrc",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Installation source manager",
		Long: `instsrc manages the installation sources of a target system: it registers
media, enables and ranks sources, and answers queries about the selections
and patterns they provide.`,
		Run: func(cmd *cobra.Command, _ []string) {
			// If no subcommand is provided, print help
			if err := cmd.Help(); err != nil {
				slog.Error("Error displaying help", "error", err)
			}
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Path to configuration file (YAML format)")
	rootCmd.PersistentFlags().String("root", "", "Target root overriding the configured one")
	for _, name := range []string{"config", "root"} {
		if err := v.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			slog.Error("Error binding flag", "flag", name, "error", err)
		}
	}

	rootCmd.AddCommand(newServeCmd(v))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newMigrateCmd(v))
	rootCmd.AddCommand(newSourcesCmd(v))
	rootCmd.AddCommand(newResolvableCmd(v, kindSelections))
	rootCmd.AddCommand(newResolvableCmd(v, kindPatterns))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}

			if format == "json" {
				return writeJSON(cmd.OutOrStdout(), info)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "instsrc %s (commit %s, built %s, %s, %s)\n",
				info.Version, info.Commit, info.BuildDate, info.GoVersion, info.Platform)
			return err
		},
	}
	cmd.Flags().String("format", "", "Output format (json)")
	return cmd
}

// loadConfig loads the configuration named by --config, defaults without one,
// and applies the --root override
func loadConfig(v *viper.Viper) (*config.Config, error) {
	var opts []config.Option
	if path := v.GetString("config"); path != "" {
		opts = append(opts, config.WithConfigPath(path))
	}

	cfg, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if root := v.GetString("root"); root != "" {
		if !filepath.IsAbs(root) {
			return nil, fmt.Errorf("--root must be an absolute path, got %s", root)
		}
		cfg.TargetRoot = root
	}
	return cfg, nil
}

func writeJSON(w io.Writer, data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format output as JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(output))
	return err
}

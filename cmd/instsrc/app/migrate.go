package app

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/instsrc/database"
)

func newMigrateCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tool",
		Long: `Database migration tool for the PostgreSQL source store.
Use with 'up' or 'down' subcommands. The connection is read from the database
section of the configuration file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	cmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to all questions")
	cmd.PersistentFlags().UintP("num-steps", "n", 0, "Number of steps to migrate down (0 = all)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, v, true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Migrate the database down",
		Long: `Migrate the database schema down by reverting migrations.
WARNING: reverting the sources migration deletes every persisted source.

Examples:
  # Migrate down by 1 step
  instsrc migrate down --config config.yaml --num-steps 1 --yes`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, v, false)
		},
	})

	return cmd
}

func runMigrate(cmd *cobra.Command, v *viper.Viper, up bool) error {
	cfg, err := loadConfig(v)
	if err != nil {
		return err
	}
	if cfg.Database == nil {
		return fmt.Errorf("database configuration is required")
	}

	connString, err := cfg.Database.GetConnectionString()
	if err != nil {
		return fmt.Errorf("failed to build connection string: %w", err)
	}

	numSteps, err := cmd.Flags().GetUint("num-steps")
	if err != nil {
		return fmt.Errorf("failed to get num-steps flag: %w", err)
	}

	target := fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)
	prompt := fmt.Sprintf("Apply migrations to %s?", target)
	if !up {
		prompt = fmt.Sprintf("Revert %d migration step(s) on %s?", numSteps, target)
		if numSteps == 0 {
			prompt = fmt.Sprintf("Revert ALL migrations on %s? This removes every persisted source.", target)
		}
	}
	ok, err := confirm(cmd, prompt)
	if err != nil {
		return err
	}
	if !ok {
		slog.Info("Migration cancelled by user")
		return nil
	}

	if up {
		err = database.MigrateUp(connString)
	} else {
		err = database.MigrateDown(connString, int(numSteps))
	}
	if err != nil {
		return err
	}

	version, dirty, err := database.Version(connString)
	switch {
	case err != nil:
		slog.Warn("Unable to get migration version", "error", err)
	case dirty:
		slog.Warn("Database is in a dirty state", "version", version)
	default:
		slog.Info("Migration completed successfully", "version", version)
	}
	return nil
}

// confirm asks a yes/no question on the command's streams unless --yes was given
func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	yes, err := cmd.Flags().GetBool("yes")
	if err != nil {
		return false, fmt.Errorf("failed to get yes flag: %w", err)
	}
	if yes {
		return true, nil
	}

	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (yes/no): ", prompt); err != nil {
		return false, err
	}
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && response == "" {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y", nil
}

package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/instsrc/internal/engine"
	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/manager"
	"github.com/stacklok/instsrc/internal/source"
	"github.com/stacklok/instsrc/internal/store"
)

// session is a source manager restored from the store of a target root
type session struct {
	*manager.Manager
	targetRoot string
	cleanup    func()
}

// openSession restores the persisted sources of the configured target root.
// With withPool the enabled sources are opened so their resolvables can be queried.
func openSession(ctx context.Context, v *viper.Viper, withPool bool) (*session, error) {
	cfg, err := loadConfig(v)
	if err != nil {
		return nil, err
	}

	st, cleanup, err := store.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create source store: %w", err)
	}

	mgr, err := manager.New(engine.NewMediaEngine(), st,
		manager.WithScanParallelism(cfg.GetScanParallelism()))
	if err != nil {
		cleanup()
		return nil, err
	}

	s := &session{Manager: mgr, targetRoot: cfg.GetTargetRoot(), cleanup: cleanup}
	if err := mgr.StartManager(ctx, s.targetRoot, withPool); err != nil {
		var partial *errs.PartialError
		if !errors.As(err, &partial) {
			cleanup()
			return nil, fmt.Errorf("failed to restore sources: %w", err)
		}
		slog.WarnContext(ctx, "Some sources could not be enabled", "error", err)
	}
	return s, nil
}

// save persists the source set and releases the store
func (s *session) save(ctx context.Context) error {
	defer s.cleanup()
	return s.SaveRanks(ctx, s.targetRoot)
}

// failureOutput lists the failed items of a partial error
type failureOutput struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

func failuresOf(err error) []failureOutput {
	var partial *errs.PartialError
	if !errors.As(err, &partial) {
		return nil
	}
	out := make([]failureOutput, 0, len(partial.Failures))
	for _, f := range partial.Failures {
		out = append(out, failureOutput{Item: f.Item, Error: f.Message()})
	}
	return out
}

func newSourcesCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage the installation sources of the target root",
	}

	cmd.AddCommand(
		newSourcesListCmd(v),
		newSourcesAddCmd(v),
		newSourcesScanCmd(v),
		newSourcesToggleCmd(v, "enable", "Enable a source and load its resolvables", true),
		newSourcesToggleCmd(v, "disable", "Disable a source", false),
		newSourcesPriorityCmd(v),
		newSourcesDeleteCmd(v),
	)
	return cmd
}

func newSourcesListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the persisted sources in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := openSession(ctx, v, false)
			if err != nil {
				return err
			}
			defer s.cleanup()

			sources := []source.Source{}
			for _, id := range s.GetCurrent(ctx, false) {
				src, err := s.GeneralData(ctx, id)
				if err != nil {
					return err
				}
				sources = append(sources, src)
			}
			return writeJSON(cmd.OutOrStdout(), sources)
		},
	}
}

func newSourcesAddCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add URL",
		Short: "Create and enable sources for the products on the media",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			productDir, err := cmd.Flags().GetString("product-dir")
			if err != nil {
				return err
			}

			s, err := openSession(ctx, v, false)
			if err != nil {
				return err
			}
			id, err := s.Create(ctx, args[0], productDir)
			if err != nil {
				s.cleanup()
				return err
			}
			if err := s.save(ctx); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]source.ID{"id": id})
		},
	}
	cmd.Flags().String("product-dir", "", "Product directory on the media (default: every product)")
	return cmd
}

func newSourcesScanCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan URL",
		Short: "Register the products on the media without enabling them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			productDir, err := cmd.Flags().GetString("product-dir")
			if err != nil {
				return err
			}

			s, err := openSession(ctx, v, false)
			if err != nil {
				return err
			}
			ids, scanErr := s.Scan(ctx, args[0], productDir)
			var partial *errs.PartialError
			if scanErr != nil && !errors.As(scanErr, &partial) {
				s.cleanup()
				return scanErr
			}
			if err := s.save(ctx); err != nil {
				return err
			}

			if ids == nil {
				ids = []source.ID{}
			}
			return writeJSON(cmd.OutOrStdout(), struct {
				IDs      []source.ID     `json:"ids"`
				Failures []failureOutput `json:"failures,omitempty"`
			}{IDs: ids, Failures: failuresOf(scanErr)})
		},
	}
	cmd.Flags().String("product-dir", "", "Product directory on the media (default: every product)")
	return cmd
}

func newSourcesToggleCmd(v *viper.Viper, use, short string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSource(cmd, v, args[0], func(ctx context.Context, s *session, id source.ID) error {
				return s.SetEnabled(ctx, id, enabled)
			})
		},
	}
}

func newSourcesPriorityCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "priority ID",
		Short: "Raise or lower the priority of a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := cmd.Flags().GetInt("delta")
			if err != nil {
				return err
			}
			if delta == 0 {
				return fmt.Errorf("--delta must not be zero")
			}
			return withSource(cmd, v, args[0], func(ctx context.Context, s *session, id source.ID) error {
				return s.SetPriority(ctx, id, delta)
			})
		},
	}
	cmd.Flags().Int("delta", 1, "Priority change, negative to lower")
	return cmd
}

func newSourcesDeleteCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSource(cmd, v, args[0], func(ctx context.Context, s *session, id source.ID) error {
				return s.Delete(ctx, id)
			})
		},
	}
}

// withSource runs fn against the source named by rawID and persists the result
func withSource(
	cmd *cobra.Command,
	v *viper.Viper,
	rawID string,
	fn func(context.Context, *session, source.ID) error,
) error {
	n, err := strconv.Atoi(rawID)
	if err != nil || n <= 0 {
		return fmt.Errorf("source id must be a positive integer, got %q", rawID)
	}

	ctx := cmd.Context()
	s, err := openSession(ctx, v, false)
	if err != nil {
		return err
	}
	if err := fn(ctx, s, source.ID(n)); err != nil {
		s.cleanup()
		return err
	}
	return s.save(ctx)
}

package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stacklok/instsrc/internal/errs"
	"github.com/stacklok/instsrc/internal/resolvable"
)

// resolvableKind binds the CLI verbs of one resolvable kind to the facade
type resolvableKind struct {
	use      string
	singular string
	list     func(*session, context.Context, resolvable.StatusFilter, string) ([]string, error)
	describe func(*session, context.Context, string) (resolvable.Metadata, error)
	content  func(*session, context.Context, string, string) ([]string, error)
}

var kindSelections = resolvableKind{
	use:      "selections",
	singular: "selection",
	list: func(s *session, ctx context.Context, f resolvable.StatusFilter, c string) ([]string, error) {
		return s.GetSelections(ctx, f, c)
	},
	describe: func(s *session, ctx context.Context, name string) (resolvable.Metadata, error) {
		return s.SelectionData(ctx, name)
	},
	content: func(s *session, ctx context.Context, name, locale string) ([]string, error) {
		return s.SelectionContent(ctx, name, false, locale)
	},
}

var kindPatterns = resolvableKind{
	use:      "patterns",
	singular: "pattern",
	list: func(s *session, ctx context.Context, f resolvable.StatusFilter, c string) ([]string, error) {
		return s.GetPatterns(ctx, f, c)
	},
	describe: func(s *session, ctx context.Context, name string) (resolvable.Metadata, error) {
		return s.PatternData(ctx, name)
	},
	content: func(s *session, ctx context.Context, name, locale string) ([]string, error) {
		return s.PatternContent(ctx, name, locale)
	},
}

func newResolvableCmd(v *viper.Viper, kind resolvableKind) *cobra.Command {
	cmd := &cobra.Command{
		Use:   kind.use,
		Short: "Query the " + kind.use + " of the enabled sources",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List " + kind.use + " by status and category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, err := cmd.Flags().GetString("status")
			if err != nil {
				return err
			}
			category, err := cmd.Flags().GetString("category")
			if err != nil {
				return err
			}
			return withPool(cmd, v, func(ctx context.Context, s *session) (any, error) {
				names, err := kind.list(s, ctx, resolvable.StatusFilter(status), category)
				if errors.Is(err, errs.ErrUnknownFilter) {
					slog.WarnContext(ctx, "Listing stopped at unknown status filter", "status", status)
					err = nil
				}
				if names == nil {
					names = []string{}
				}
				return names, err
			})
		},
	}
	list.Flags().String("status", string(resolvable.FilterAll), "Status filter: all, available, selected or installed")
	list.Flags().String("category", "", "Category filter, \"base\" for base "+kind.use)

	show := &cobra.Command{
		Use:   "show NAME",
		Short: "Show the metadata of a " + kind.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd, v, func(ctx context.Context, s *session) (any, error) {
				return kind.describe(s, ctx, args[0])
			})
		},
	}

	content := &cobra.Command{
		Use:   "content NAME",
		Short: "List the packages of a " + kind.singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, err := cmd.Flags().GetString("locale")
			if err != nil {
				return err
			}
			return withPool(cmd, v, func(ctx context.Context, s *session) (any, error) {
				return kind.content(s, ctx, args[0], locale)
			})
		},
	}
	content.Flags().String("locale", "", "Include the packages of this locale")

	cmd.AddCommand(list, show, content)
	return cmd
}

// withPool opens the enabled sources, runs query and prints its result
func withPool(cmd *cobra.Command, v *viper.Viper, query func(context.Context, *session) (any, error)) error {
	ctx := cmd.Context()
	s, err := openSession(ctx, v, true)
	if err != nil {
		return err
	}
	defer s.cleanup()

	out, err := query(ctx, s)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

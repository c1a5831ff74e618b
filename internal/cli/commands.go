package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the sys_sequences table if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				if err := b.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("failed to migrate: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			})
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				counters, err := b.ListCounters(cmd.Context(), prefix)
				if err != nil {
					return err
				}
				if len(counters) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No counters found.")
					return nil
				}

				tbl := table.New("NAME", "SEQ", "NEXT", "UPDATED").
					WithWriter(cmd.OutOrStdout()).
					WithPadding(2)
				for _, c := range counters {
					tbl.AddRow(c.Name, c.Seq, c.Next(), c.UpdatedAt.Format(time.RFC3339))
				}
				tbl.Print()
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "Only show counters whose name starts with prefix")
	return cmd
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview <name>",
		Short: "Show the next value without reserving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				p, err := b.PreviewNext(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: next %d (not reserved)\n", p.Name, p.Next)
				return nil
			})
		},
	}
}

func newNextCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next <name>",
		Short: "Reserve the next value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				v, err := b.AllocateNext(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			})
		},
	}
}

func newBatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <name> <count>",
		Short: "Reserve a contiguous block of values",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid count %q", args[1])
			}
			return opts.withBackend(cmd.Context(), func(b Backend) error {
				rng, err := b.AllocateBatch(cmd.Context(), args[0], count)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d..%d (%d values)\n", rng.Name, rng.First, rng.Last, rng.Len())
				return nil
			})
		},
	}
}

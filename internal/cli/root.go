// Package cli implements seqctl, the operator command line for sequence counters.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"backoffice/internal/core/sequence"
)

// Backend is what seqctl needs from storage.
type Backend interface {
	sequence.Allocator
	sequence.Lister
	Migrate(ctx context.Context) error
}

// Opener connects to the database at dsn. The returned func releases it.
type Opener func(ctx context.Context, dsn string) (Backend, func(), error)

type rootOptions struct {
	databaseURL string
	open        Opener
}

// NewRootCommand builds the seqctl command tree.
func NewRootCommand(open Opener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:   "seqctl",
		Short: "Inspect and operate back-office sequence counters",
		Long: `seqctl works directly against the sys_sequences table.

Values returned by next and batch are reserved exactly as if the API had
issued them. preview and list never change a counter.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.databaseURL, "database-url", os.Getenv("DATABASE_URL"),
		"PostgreSQL connection string (default $DATABASE_URL)")

	cmd.AddCommand(
		newMigrateCommand(opts),
		newListCommand(opts),
		newPreviewCommand(opts),
		newNextCommand(opts),
		newBatchCommand(opts),
	)
	return cmd
}

// withBackend opens the backend for one command run.
func (o *rootOptions) withBackend(ctx context.Context, fn func(Backend) error) error {
	if o.databaseURL == "" {
		return fmt.Errorf("database URL is required (--database-url or DATABASE_URL)")
	}
	backend, closeFn, err := o.open(ctx, o.databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer closeFn()
	return fn(backend)
}

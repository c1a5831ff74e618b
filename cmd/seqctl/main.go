// Package main is the entry point for seqctl.
package main

import (
	"context"
	"fmt"
	"os"

	"backoffice/internal/cli"
	"backoffice/internal/core/tx"
	seqstore "backoffice/internal/infrastructure/sequence"
	"backoffice/internal/infrastructure/storage/postgres"
	"backoffice/pkg/logger"
)

// backend serves seqctl from a pool.
type backend struct {
	*seqstore.Service
	txManager tx.Manager
	querier   func(ctx context.Context) postgres.Querier
}

// Migrate applies the schema in one transaction.
func (b *backend) Migrate(ctx context.Context) error {
	return b.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return postgres.Migrate(ctx, b.querier(ctx))
	})
}

func open(ctx context.Context, dsn string) (cli.Backend, func(), error) {
	cfg := postgres.DefaultPoolConfig(dsn)
	cfg.ApplicationName = "seqctl"
	cfg.MaxConns = 2
	cfg.MinConns = 0

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	txm := postgres.NewTxManager(pool)
	svc := seqstore.NewWithTxManager(txm, seqstore.Config{
		Logger: logger.NewNop(),
	})
	return &backend{Service: svc, txManager: txm, querier: txm.GetQuerier}, pool.Close, nil
}

func main() {
	if err := cli.NewRootCommand(open).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

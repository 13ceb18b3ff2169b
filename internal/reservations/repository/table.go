package repository

import "context"

// Table is the storage capability both record sets are built on: read every row,
// append one row, or replace the whole set. Rows are plain string fields so every
// backend round-trips them unchanged.
type Table interface {
	Name() string
	ReadAll(ctx context.Context) ([][]string, error)
	Append(ctx context.Context, row []string) error
	RewriteAll(ctx context.Context, rows [][]string) error
	Ping(ctx context.Context) error
}

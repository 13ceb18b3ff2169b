package repository

import (
	"context"
	"sync"
)

type memoryTable struct {
	name string
	mu   sync.RWMutex
	rows [][]string
}

// NewMemoryTable keeps rows in process memory. Used by tests and the "memory" backend.
func NewMemoryTable(name string, rows ...[]string) Table {
	return &memoryTable{name: name, rows: copyRows(rows)}
}

func (t *memoryTable) Name() string {
	return t.name
}

func (t *memoryTable) ReadAll(ctx context.Context) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyRows(t.rows), nil
}

func (t *memoryTable) Append(ctx context.Context, row []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, append([]string(nil), row...))
	return nil
}

func (t *memoryTable) RewriteAll(ctx context.Context, rows [][]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = copyRows(rows)
	return nil
}

func (t *memoryTable) Ping(ctx context.Context) error {
	return ctx.Err()
}

func copyRows(rows [][]string) [][]string {
	if rows == nil {
		return nil
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = append([]string(nil), row...)
	}
	return out
}

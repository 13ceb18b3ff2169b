package repository

import (
	"fmt"
	"path/filepath"
	"strings"

	"tablebot/pkg/config"
)

const (
	BookingsCollection  = "bookings"
	CustomersCollection = "customers"
)

// OpenTables builds the booking and customer tables for the configured backend.
// The mongo backend connects through cfg.Client and fails fast when unreachable.
func OpenTables(cfg *config.Config) (bookings Table, customers Table, err error) {
	switch cfg.StoreBackend {
	case config.StoreCSV:
		return NewCSVTable(resolvePath(cfg.DataDir, cfg.BookingsFile)),
			NewCSVTable(resolvePath(cfg.DataDir, cfg.CustomersFile)),
			nil
	case config.StoreMongo:
		if cfg.Client.Mongo == nil {
			cfg.SetMongo()
		}
		return NewMongoTable(cfg.Client.Mongo, cfg.MongoDatabaseName, BookingsCollection, cfg.ReadTimeout, cfg.WriteTimeout),
			NewMongoTable(cfg.Client.Mongo, cfg.MongoDatabaseName, CustomersCollection, cfg.ReadTimeout, cfg.WriteTimeout),
			nil
	case config.StoreMemory:
		return NewMemoryTable(BookingsCollection), NewMemoryTable(CustomersCollection), nil
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}

func resolvePath(dir, file string) string {
	if filepath.IsAbs(file) || strings.TrimSpace(dir) == "" {
		return file
	}
	return filepath.Join(dir, file)
}

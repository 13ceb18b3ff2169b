package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	reserrors "tablebot/internal/reservations/errors"
	"tablebot/pkg/logger"
	"tablebot/pkg/model"
)

type CustomerRepository interface {
	FindCustomer(ctx context.Context, id string) (*model.CustomerRecord, error)
	CreateCustomer(ctx context.Context, customer model.CustomerRecord) (*model.CustomerRecord, error)
	IncrementLoyalty(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

type customerRepository struct {
	table Table
	log   *logger.Logger
}

func NewCustomerRepository(table Table, log *logger.Logger) CustomerRepository {
	return &customerRepository{table: table, log: log}
}

// FindCustomer scans the record set for id. A corrupted loyalty column does not hide
// the customer; the count reads as zero.
func (r *customerRepository) FindCustomer(ctx context.Context, id string) (*model.CustomerRecord, error) {
	rows, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read customers: %w", err)
	}

	for _, row := range rows {
		if !matchesCustomer(row, id) {
			continue
		}
		c, err := rowToCustomer(row)
		if err != nil {
			if !errors.Is(err, reserrors.ErrLoyaltyNotNumeric) {
				return nil, err
			}
			r.log.Warn("Customer has a malformed loyalty count", "customer_id", id, "error", err)
		}
		return &c, nil
	}
	return nil, reserrors.ErrCustomerNotFound
}

// CreateCustomer appends a new record with a zero loyalty count, whatever count the
// caller passed.
func (r *customerRepository) CreateCustomer(ctx context.Context, customer model.CustomerRecord) (*model.CustomerRecord, error) {
	customer.LoyaltyCount = 0
	if err := r.table.Append(ctx, customerToRow(customer)); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return &customer, nil
}

// IncrementLoyalty rewrites the whole record set with the customer's loyalty count
// raised by one. It reports false, and writes nothing, when the customer is absent or
// the stored count is not a non-negative integer.
func (r *customerRepository) IncrementLoyalty(ctx context.Context, id string) (bool, error) {
	rows, err := r.table.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read customers: %w", err)
	}

	target := -1
	for i, row := range rows {
		if matchesCustomer(row, id) {
			target = i
			break
		}
	}
	if target < 0 {
		r.log.Debug("Loyalty not updated, customer unknown", "customer_id", id)
		return false, nil
	}

	row := rows[target]
	if len(row) <= colCustomerLoyalty {
		r.log.Warn("Loyalty not updated, row has no loyalty column", "customer_id", id, "columns", len(row))
		return false, nil
	}
	count, err := parseLoyalty(strings.TrimSpace(row[colCustomerLoyalty]))
	if err != nil {
		r.log.Warn("Loyalty not updated", "customer_id", id, "error", err)
		return false, nil
	}

	updated := append([]string(nil), row...)
	updated[colCustomerLoyalty] = strconv.Itoa(count + 1)
	rows[target] = updated

	if err := r.table.RewriteAll(ctx, rows); err != nil {
		return false, fmt.Errorf("failed to update loyalty: %w", err)
	}
	return true, nil
}

func (r *customerRepository) Ping(ctx context.Context) error {
	return r.table.Ping(ctx)
}

func matchesCustomer(row []string, id string) bool {
	return len(row) > colCustomerID && strings.TrimSpace(row[colCustomerID]) == id
}

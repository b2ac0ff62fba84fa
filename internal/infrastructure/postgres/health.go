package postgres

import (
	"context"
	"fmt"
)

// Health runs SELECT 1 through the pool.
type Health struct {
	q Querier
}

// NewHealth builds the checker.
func NewHealth(q Querier) *Health {
	return &Health{q: q}
}

// Ping fails when the database cannot answer a trivial query.
func (h *Health) Ping(ctx context.Context) error {
	var one int
	if err := h.q.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

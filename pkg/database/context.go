package database

import "context"

type contextKey string

// QuerierKey is the context key for the active database querier.
const QuerierKey contextKey = "querier"

// GetQuerier retrieves the active querier (pool or transaction) from
// context. Returns nil and false if not present.
func GetQuerier(ctx context.Context) (Querier, bool) {
	q, ok := ctx.Value(QuerierKey).(Querier)
	return q, ok
}

// WithQuerier stores a querier in the context for repository use.
func WithQuerier(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, QuerierKey, q)
}

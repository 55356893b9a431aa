package database

import "net/http"

// WithPoolContext creates middleware that puts the shared pool querier
// in every request context. Lifecycle operations replace it with a
// transaction querier via InTx.
func WithPoolContext(db *DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithQuerier(r.Context(), db.Pool)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package db

import (
	"context"
	"database/sql"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Tables owned by the application schema.
const (
	TableUsers     = "users"
	TableDistricts = "districts"
	TableBookings  = "bookings"
	TablePricing   = "pricing"
)

// RequiredTables lists every table the API reads or writes.
var RequiredTables = []string{TableUsers, TableDistricts, TableBookings, TablePricing}

func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		// bad connection and missing row both read as absent
		return false
	}
	return name.Valid && name.String != ""
}

// MissingTables returns the required tables that are not present.
func MissingTables(ctx context.Context, q QueryRower) []string {
	missing := []string{}
	for _, t := range RequiredTables {
		if !HasTable(ctx, q, t) {
			missing = append(missing, t)
		}
	}
	return missing
}

//go:build !cgo_sqlite

package corpus

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

// DriverName is the database/sql driver used for the corpus store.
const DriverName = "sqlite"

// OpenDB opens the SQLite database at dataSource.
func OpenDB(dataSource string) (*sql.DB, error) {
	return sql.Open(DriverName, dataSource)
}

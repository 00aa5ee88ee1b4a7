package postgres

import (
	"database/sql"
)

// Queryer is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Repositories are built against it so the same code runs standalone or
// inside a sync pass transaction.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

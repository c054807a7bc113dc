package dbx

import "database/sql"

// Both handle types must satisfy DBTX so repositories can run against a
// plain connection or inside a transaction.
var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

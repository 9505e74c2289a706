// Package repomanager hands out repositories bound to a DB handle or a
// transaction, so services control the transaction boundary.
package repomanager

import (
	"database/sql"

	"github.com/trippix/attractions/internal/dbx"
	"github.com/trippix/attractions/internal/server/repositories/images"
)

// RepositoryManager constructs repositories over an arbitrary DBTX.
// Passing the manager's Conn() gives auto-commit repositories; passing a
// dbx.WithTx handle binds them to that transaction.
type RepositoryManager interface {
	Images(db dbx.DBTX) images.Repository
	Conn() *sql.DB
	Close() error
}

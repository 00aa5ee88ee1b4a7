package repository

import (
	"context"
	"database/sql"

	"github.com/vfg2006/qianchuan-sync-api/infrastructure/database/postgres"
)

// Store bundles every repository over one Queryer, so a sync pass can run
// all of its writes inside a single transaction.
type Store struct {
	Advertisers    AdvertiserRepository
	Balances       BalanceSnapshotRepository
	Finance        FinanceDailyRepository
	Comments       CommentRepository
	CommentActions CommentActionRepository
	AlertEvents    AlertEventRepository
}

func NewStore(conn postgres.Queryer) *Store {
	return &Store{
		Advertisers:    NewAdvertiserRepository(conn),
		Balances:       NewBalanceSnapshotRepository(conn),
		Finance:        NewFinanceDailyRepository(conn),
		Comments:       NewCommentRepository(conn),
		CommentActions: NewCommentActionRepository(conn),
		AlertEvents:    NewAlertEventRepository(conn),
	}
}

// Provider hands out stores either directly on the pool or scoped to a
// transaction. One pass, one transaction: an error rolls everything back and
// the next run redoes the pass from scratch.
type Provider struct {
	conn *postgres.Connection
}

func NewProvider(conn *postgres.Connection) *Provider {
	return &Provider{conn: conn}
}

// Store returns a store running directly on the connection pool.
func (p *Provider) Store() *Store {
	return NewStore(p.conn)
}

// InTransaction runs fn with a store bound to one transaction, committing on
// success and rolling back on error or panic.
func (p *Provider) InTransaction(ctx context.Context, fn func(*Store) error) error {
	return p.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		return fn(NewStore(tx))
	})
}

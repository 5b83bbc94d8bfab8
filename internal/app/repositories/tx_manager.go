package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/courseregistry/internal/db"
)

// TxRepositories are repositories bound to one open transaction
type TxRepositories struct {
	Courses  ICourseRepository
	Students IStudentRepository
}

// TxManager runs a unit of work inside a single transaction
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// PostgresTxManager opens transactions on the shared pool
type PostgresTxManager struct {
	db *db.PostgresDB
}

// NewPostgresTxManager creates a transaction manager
func NewPostgresTxManager(pg *db.PostgresDB) *PostgresTxManager {
	return &PostgresTxManager{db: pg}
}

// WithTx commits when fn returns nil and rolls back otherwise
func (m *PostgresTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	return m.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, TxRepositories{
			Courses:  NewCourseRepository(tx),
			Students: NewStudentRepository(tx),
		})
	})
}

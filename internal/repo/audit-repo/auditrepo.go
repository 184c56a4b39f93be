package auditrepo

import (
	"context"

	"github.com/vmalakhov/banksettle/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Record(ctx context.Context, operation string, userID *int, details string) error {
	query := `
		INSERT INTO audit_logs (operation, user_id, details)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.Exec(ctx, query, operation, userID, details)
	if err != nil {
		zap.L().Error("can't save audit entry", zap.Error(err))
		return err
	}
	return nil
}

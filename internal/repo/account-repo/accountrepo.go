package accountrepo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/vmalakhov/banksettle/internal/domain"
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

func (r *Repository) GetByUserID(ctx context.Context, userID int) (*domain.Account, error) {
	query := `
        SELECT account_id, user_id, balance
        FROM accounts
        WHERE user_id = $1
    `
	row := r.db.QueryRow(ctx, query, userID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get account by user", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

func (r *Repository) GetByID(ctx context.Context, accountID int) (*domain.Account, error) {
	query := `
        SELECT account_id, user_id, balance
        FROM accounts
        WHERE account_id = $1
    `
	row := r.db.QueryRow(ctx, query, accountID)
	var account domain.Account
	err := row.Scan(&account.ID, &account.UserID, &account.Balance)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.Error(err))
		return nil, err
	}
	return &account, nil
}

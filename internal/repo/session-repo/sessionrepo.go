package sessionrepo

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

func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	query := `
		INSERT INTO sessions (user_id, token, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING session_id
	`
	err := r.db.QueryRow(ctx, query, session.UserID, session.Token, session.CreatedAt, session.ExpiresAt).Scan(&session.ID)
	if err != nil {
		zap.L().Error("can't save session", zap.Error(err))
		return nil, err
	}
	return session, nil
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*domain.Session, error) {
	query := `
        SELECT session_id, user_id, token, created_at, expires_at
        FROM sessions
        WHERE token = $1
    `
	row := r.db.QueryRow(ctx, query, token)
	var session domain.Session
	err := row.Scan(&session.ID, &session.UserID, &session.Token, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find session", zap.Error(err))
		return nil, err
	}
	return &session, nil
}

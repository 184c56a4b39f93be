package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int       `db:"user_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Email        string    `db:"email"`
	CreatedAt    time.Time `db:"created_at"`
}

type Account struct {
	ID        int             `db:"account_id"`
	UserID    int             `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	CreatedAt time.Time       `db:"created_at"`
}

type Session struct {
	ID        int       `db:"session_id"`
	UserID    int       `db:"user_id"`
	Token     string    `db:"token"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

const (
	// PendingTransferStatus: record persisted, funds not moved yet;
	PendingTransferStatus string = "PENDING"
	// CompletedTransferStatus: funds moved, terminal;
	CompletedTransferStatus string = "COMPLETED"
	// FailedTransferStatus: settlement rejected, terminal;
	FailedTransferStatus string = "FAILED"
)

type Transfer struct {
	ID            int             `db:"transfer_id"`
	FromAccountID int             `db:"from_account_id"`
	ToAccountID   int             `db:"to_account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Fee           decimal.Decimal `db:"fee"`
	Status        string          `db:"status"`
	Reference     string          `db:"reference"`
	CreatedAt     time.Time       `db:"created_at"`
	CompletedAt   *time.Time      `db:"completed_at"`
}

type AuditLogEntry struct {
	ID        int       `db:"log_id"`
	Operation string    `db:"operation"`
	UserID    *int      `db:"user_id"`
	Details   string    `db:"details"`
	Timestamp time.Time `db:"timestamp"`
}

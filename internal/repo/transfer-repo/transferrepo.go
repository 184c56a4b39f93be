package transferrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/vmalakhov/banksettle/internal/domain"
	"github.com/vmalakhov/banksettle/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	query := `
        INSERT INTO transfers (from_account_id, to_account_id, amount, fee, status, reference, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING transfer_id
    `
	err := r.db.QueryRow(ctx, query,
		transfer.FromAccountID, transfer.ToAccountID, transfer.Amount, transfer.Fee,
		transfer.Status, transfer.Reference, transfer.CreatedAt,
	).Scan(&transfer.ID)
	if err != nil {
		zap.L().Error("can't save transfer", zap.Error(err))
		return nil, err
	}
	return transfer, nil
}

func (r *Repository) GetByID(ctx context.Context, transferID int) (*domain.Transfer, error) {
	query := `
        SELECT transfer_id, from_account_id, to_account_id, amount, fee, status, reference, created_at, completed_at
        FROM transfers
        WHERE transfer_id = $1
    `
	row := r.db.QueryRow(ctx, query, transferID)
	var transfer domain.Transfer
	err := row.Scan(&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID, &transfer.Amount,
		&transfer.Fee, &transfer.Status, &transfer.Reference, &transfer.CreatedAt, &transfer.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find transfer", zap.Error(err))
		return nil, err
	}
	return &transfer, nil
}

func (r *Repository) ListForAccount(ctx context.Context, accountID int, limit int) ([]domain.Transfer, error) {
	query := `
        SELECT transfer_id, from_account_id, to_account_id, amount, fee, status, reference, created_at, completed_at
        FROM transfers
        WHERE from_account_id = $1 OR to_account_id = $1
        ORDER BY created_at DESC
        LIMIT $2
    `
	rows, err := r.db.Query(ctx, query, accountID, limit)
	if err != nil {
		zap.L().Error("can't get transfers for account", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transfers []domain.Transfer
	for rows.Next() {
		var transfer domain.Transfer
		err := rows.Scan(&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID, &transfer.Amount,
			&transfer.Fee, &transfer.Status, &transfer.Reference, &transfer.CreatedAt, &transfer.CompletedAt)
		if err != nil {
			zap.L().Error("can't scan transfer row", zap.Error(err))
			return nil, err
		}
		transfers = append(transfers, transfer)
	}
	return transfers, nil
}

// Settle drives a PENDING transfer to its terminal state inside a single
// transaction: re-reads both balances under row locks, moves the funds and
// flips the status. A failed settlement (insufficient funds, vanished
// account) still commits, leaving a FAILED row with the reason appended to
// the reference; the returned error then carries the failure kind. Errors
// from the store itself roll the transaction back.
func (r *Repository) Settle(ctx context.Context, transferID int) (*domain.Transfer, error) {
	var transfer domain.Transfer
	var failure error

	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		query := `
        SELECT transfer_id, from_account_id, to_account_id, amount, fee, status, reference, created_at, completed_at
        FROM transfers
        WHERE transfer_id = $1
        FOR UPDATE
    `
		row := r.db.QueryRow(ctx, query, transferID)
		err := row.Scan(&transfer.ID, &transfer.FromAccountID, &transfer.ToAccountID, &transfer.Amount,
			&transfer.Fee, &transfer.Status, &transfer.Reference, &transfer.CreatedAt, &transfer.CompletedAt)
		if err != nil {
			zap.L().Error("can't lock transfer for settlement", zap.Error(err))
			return err
		}
		if transfer.Status != domain.PendingTransferStatus {
			return fmt.Errorf("transfer %d is already %s", transfer.ID, transfer.Status)
		}

		// Lock both accounts in ascending id order so symmetric transfers
		// A->B and B->A cannot deadlock.
		ids := []int{transfer.FromAccountID, transfer.ToAccountID}
		if ids[1] < ids[0] {
			ids[0], ids[1] = ids[1], ids[0]
		}
		balances := make(map[int]decimal.Decimal, 2)
		for _, id := range ids {
			var balance decimal.Decimal
			err := r.db.QueryRow(ctx, `SELECT balance FROM accounts WHERE account_id = $1 FOR UPDATE`, id).Scan(&balance)
			if errors.Is(err, pgx.ErrNoRows) {
				side := "recipient"
				if id == transfer.FromAccountID {
					side = "sender"
				}
				failure = domain.Errorf(domain.ErrNotFound, "%s account", side)
				return r.fail(ctx, &transfer, fmt.Sprintf(" [Error: %s account missing]", side))
			}
			if err != nil {
				zap.L().Error("can't lock account for settlement", zap.Error(err))
				return err
			}
			balances[id] = balance
		}

		total := transfer.Amount.Add(transfer.Fee)
		if balances[transfer.FromAccountID].Cmp(total) < 0 {
			failure = domain.Errorf(domain.ErrInsufficientFunds,
				"required %s, available %s", total.StringFixed(2), balances[transfer.FromAccountID].StringFixed(2))
			return r.fail(ctx, &transfer, " [Error: Insufficient funds]")
		}

		if _, err := r.db.Exec(ctx, `UPDATE accounts SET balance = balance - $1 WHERE account_id = $2`, total, transfer.FromAccountID); err != nil {
			zap.L().Error("can't debit sender", zap.Error(err))
			return err
		}
		if _, err := r.db.Exec(ctx, `UPDATE accounts SET balance = balance + $1 WHERE account_id = $2`, transfer.Amount, transfer.ToAccountID); err != nil {
			zap.L().Error("can't credit recipient", zap.Error(err))
			return err
		}

		completedAt := time.Now()
		if _, err := r.db.Exec(ctx, `UPDATE transfers SET status = $1, completed_at = $2 WHERE transfer_id = $3`,
			domain.CompletedTransferStatus, completedAt, transfer.ID); err != nil {
			zap.L().Error("can't complete transfer", zap.Error(err))
			return err
		}
		transfer.Status = domain.CompletedTransferStatus
		transfer.CompletedAt = &completedAt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &transfer, failure
}

func (r *Repository) fail(ctx context.Context, transfer *domain.Transfer, reason string) error {
	completedAt := time.Now()
	_, err := r.db.Exec(ctx, `UPDATE transfers SET status = $1, reference = reference || $2, completed_at = $3 WHERE transfer_id = $4`,
		domain.FailedTransferStatus, reason, completedAt, transfer.ID)
	if err != nil {
		zap.L().Error("can't mark transfer failed", zap.Error(err))
		return err
	}
	transfer.Status = domain.FailedTransferStatus
	transfer.Reference += reason
	transfer.CompletedAt = &completedAt
	return nil
}

// MarkFailed is the service's last resort when the settlement transaction
// itself errored: it tries to push the PENDING row to FAILED so no transfer
// is left dangling.
func (r *Repository) MarkFailed(ctx context.Context, transferID int, reason string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE transfers SET status = $1, reference = reference || $2, completed_at = $3 WHERE transfer_id = $4 AND status = $5`,
		domain.FailedTransferStatus, reason, time.Now(), transferID, domain.PendingTransferStatus)
	if err != nil {
		zap.L().Error("can't mark transfer failed", zap.Error(err))
		return err
	}
	return nil
}

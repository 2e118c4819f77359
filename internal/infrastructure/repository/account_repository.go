package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	accountColumns = `id, chat_user_id, chat_access_token, code_host_access_token, username, created_at, updated_at`

	selectAccountByIdQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1`

	selectAccountByChatUserQuery = `
SELECT ` + accountColumns + `
FROM accounts
WHERE chat_user_id = $1`

	upsertAccountQuery = `
INSERT INTO accounts(id, chat_user_id, chat_access_token, username)
VALUES ($1, $2, $3, $4)
ON CONFLICT (chat_user_id) DO UPDATE
SET chat_access_token = EXCLUDED.chat_access_token,
    username = EXCLUDED.username,
    updated_at = now()
RETURNING ` + accountColumns

	setCodeHostTokenQuery = `
UPDATE accounts
SET code_host_access_token = $2,
    updated_at = now()
WHERE id = $1
RETURNING ` + accountColumns
)

type AccountRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewAccountRepository(db *pgxpool.Pool, log *zap.Logger) *AccountRepository {
	return &AccountRepository{
		db:  db,
		log: log,
	}
}

func (r *AccountRepository) FindByChatUserId(ctx context.Context, chatUserId string) (*domain.Account, error) {
	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountByChatUserQuery, chatUserId))
	if err != nil {
		return nil, handleDBError(err)
	}
	return account, nil
}

func (r *AccountRepository) Upsert(ctx context.Context, d *dto.UpsertAccountDTO) (*domain.Account, error) {
	r.log.Info("upsert account", zap.String("chat_user_id", d.ChatUserId))

	account, err := scanAccount(r.db.QueryRow(ctx, upsertAccountQuery,
		uuid.New(),
		d.ChatUserId,
		d.ChatAccessToken,
		d.Username,
	))
	if err != nil {
		r.log.Error("failed to upsert account",
			zap.String("chat_user_id", d.ChatUserId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	return account, nil
}

func (r *AccountRepository) SetCodeHostToken(ctx context.Context, d *dto.SetCodeHostTokenDTO) (*domain.Account, error) {
	r.log.Info("store code host token", zap.String("account_id", d.AccountId.String()))

	account, err := scanAccount(r.db.QueryRow(ctx, setCodeHostTokenQuery, d.AccountId, d.Token))
	if err != nil {
		r.log.Error("failed to store code host token",
			zap.String("account_id", d.AccountId.String()),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	return account, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	account := &domain.Account{}
	err := row.Scan(
		&account.Id,
		&account.ChatUserId,
		&account.ChatAccessToken,
		&account.CodeHostAccessToken,
		&account.Username,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return account, nil
}

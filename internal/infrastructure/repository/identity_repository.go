package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	identityColumns = `id, external_id, login, avatar_url, account_id, created_at, updated_at`

	selectIdentityQuery = `
SELECT ` + identityColumns + `
FROM identities
WHERE external_id = $1`

	// account_id заменяется, только если его передали
	upsertIdentityQuery = `
INSERT INTO identities(id, external_id, login, avatar_url, account_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (external_id) DO UPDATE
SET login = EXCLUDED.login,
    avatar_url = EXCLUDED.avatar_url,
    account_id = COALESCE(EXCLUDED.account_id, identities.account_id),
    updated_at = now()
RETURNING ` + identityColumns

	unlinkAccountQuery = `
UPDATE identities
SET account_id = NULL,
    updated_at = now()
WHERE account_id = $1 AND external_id <> $2`
)

type IdentityRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewIdentityRepository(db *pgxpool.Pool, log *zap.Logger) *IdentityRepository {
	return &IdentityRepository{
		db:  db,
		log: log,
	}
}

// Find возвращает nil без ошибки, если пользователь еще не встречался
func (r *IdentityRepository) Find(ctx context.Context, externalId int64) (*domain.Identity, error) {
	identity, err := scanIdentity(r.db.QueryRow(ctx, selectIdentityQuery, externalId))
	if err != nil {
		err = handleDBError(err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		r.log.Error("failed to find identity",
			zap.Int64("external_id", externalId),
			zap.Error(err),
		)
		return nil, err
	}
	return identity, nil
}

func (r *IdentityRepository) Create(ctx context.Context, d *dto.IdentityDTO, accountId *uuid.UUID) (*domain.Identity, error) {
	r.log.Info("create identity",
		zap.Int64("external_id", d.ExternalId),
		zap.String("login", d.Login),
	)

	identity, err := scanIdentity(r.db.QueryRow(ctx, upsertIdentityQuery,
		uuid.New(),
		d.ExternalId,
		d.Login,
		d.AvatarUrl,
		accountId,
	))
	if err != nil {
		r.log.Error("failed to create identity",
			zap.Int64("external_id", d.ExternalId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	return identity, nil
}

// Link привязывает пользователя к аккаунту и отвязывает
// прежнего пользователя этого аккаунта
func (r *IdentityRepository) Link(ctx context.Context, accountId uuid.UUID, d *dto.IdentityDTO) (*domain.Identity, error) {
	r.log.Info("link identity",
		zap.String("account_id", accountId.String()),
		zap.Int64("external_id", d.ExternalId),
	)

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, handleDBError(err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, unlinkAccountQuery, accountId, d.ExternalId); err != nil {
		r.log.Error("failed to unlink previous identity",
			zap.String("account_id", accountId.String()),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	identity, err := scanIdentity(tx.QueryRow(ctx, upsertIdentityQuery,
		uuid.New(),
		d.ExternalId,
		d.Login,
		d.AvatarUrl,
		accountId,
	))
	if err != nil {
		r.log.Error("failed to link identity",
			zap.Int64("external_id", d.ExternalId),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, handleDBError(err)
	}

	return identity, nil
}

// ResolveAccount возвращает nil без ошибки, если привязки нет
func (r *IdentityRepository) ResolveAccount(ctx context.Context, identity *domain.Identity) (*domain.Account, error) {
	if identity == nil || identity.AccountId == nil {
		return nil, nil
	}

	account, err := scanAccount(r.db.QueryRow(ctx, selectAccountByIdQuery, *identity.AccountId))
	if err != nil {
		err = handleDBError(err)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		r.log.Error("failed to resolve account",
			zap.Int64("external_id", identity.ExternalId),
			zap.Error(err),
		)
		return nil, err
	}
	return account, nil
}

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	identity := &domain.Identity{}
	err := row.Scan(
		&identity.Id,
		&identity.ExternalId,
		&identity.Login,
		&identity.AvatarUrl,
		&identity.AccountId,
		&identity.CreatedAt,
		&identity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

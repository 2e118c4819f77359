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
	prColumns = `id, external_id, state, channel_id, message_ts, display_text, author_identity_id, created_at, updated_at`

	insertPrQuery = `
INSERT INTO pull_requests(id, external_id, state, channel_id, message_ts, display_text, author_identity_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + prColumns

	selectPrByExternalIdQuery = `
SELECT ` + prColumns + `
FROM pull_requests
WHERE external_id = $1`

	transitionPrQuery = `
UPDATE pull_requests
SET state = $2,
    updated_at = now()
WHERE external_id = $1
  AND ($3::text = '' OR state = $3::text)
RETURNING ` + prColumns

	selectPrsByStateQuery = `
SELECT ` + prColumns + `
FROM pull_requests
WHERE state = $1
ORDER BY created_at, external_id`
)

type PrRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewPrRepository(db *pgxpool.Pool, log *zap.Logger) *PrRepository {
	return &PrRepository{
		db:  db,
		log: log,
	}
}

func (r *PrRepository) Create(ctx context.Context, d *dto.CreatePrDTO) (*domain.Pr, error) {
	r.log.Info("create pull request",
		zap.String("pr_id", d.ExternalId),
		zap.String("channel", d.ChannelId),
	)

	pr, err := scanPr(r.db.QueryRow(ctx, insertPrQuery,
		uuid.New(),
		d.ExternalId,
		d.State,
		d.ChannelId,
		d.MessageTs,
		d.DisplayText,
		d.AuthorIdentityId,
	))
	if err != nil {
		err = handleDBError(err)
		if errors.Is(err, ErrAlreadyExists) {
			r.log.Info("pull request already recorded", zap.String("pr_id", d.ExternalId))
			return nil, err
		}
		r.log.Error("failed to insert pull request",
			zap.String("pr_id", d.ExternalId),
			zap.Error(err),
		)
		return nil, err
	}

	return pr, nil
}

func (r *PrRepository) FindByExternalId(ctx context.Context, externalId string) (*domain.Pr, error) {
	pr, err := scanPr(r.db.QueryRow(ctx, selectPrByExternalIdQuery, externalId))
	if err != nil {
		return nil, handleDBError(err)
	}
	return pr, nil
}

// Transition возвращает ErrStateChanged, если задан d.From,
// а запись уже вышла из этого состояния
func (r *PrRepository) Transition(ctx context.Context, d *dto.TransitionPrDTO) (*domain.Pr, error) {
	r.log.Info("transition pull request",
		zap.String("pr_id", d.ExternalId),
		zap.String("from", string(d.From)),
		zap.String("state", string(d.State)),
	)

	pr, err := scanPr(r.db.QueryRow(ctx, transitionPrQuery, d.ExternalId, string(d.State), string(d.From)))
	if err == nil {
		return pr, nil
	}

	err = handleDBError(err)
	if !errors.Is(err, ErrNotFound) {
		r.log.Error("failed to transition pull request",
			zap.String("pr_id", d.ExternalId),
			zap.Error(err),
		)
		return nil, err
	}

	if d.From != "" {
		current, findErr := r.FindByExternalId(ctx, d.ExternalId)
		if findErr == nil {
			r.log.Info("pull request state moved on",
				zap.String("pr_id", d.ExternalId),
				zap.String("expected", string(d.From)),
				zap.String("actual", string(current.State)),
			)
			return nil, ErrStateChanged
		}
		if !errors.Is(findErr, ErrNotFound) {
			return nil, findErr
		}
	}

	r.log.Warn("pull request not found for transition", zap.String("pr_id", d.ExternalId))
	return nil, err
}

func (r *PrRepository) ListByState(ctx context.Context, state domain.PrState) ([]*domain.Pr, error) {
	rows, err := r.db.Query(ctx, selectPrsByStateQuery, state)
	if err != nil {
		r.log.Error("failed to list pull requests",
			zap.String("state", string(state)),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	defer rows.Close()

	prs := make([]*domain.Pr, 0)
	for rows.Next() {
		pr, err := scanPr(rows)
		if err != nil {
			return nil, handleDBError(err)
		}
		prs = append(prs, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}

	return prs, nil
}

func scanPr(row pgx.Row) (*domain.Pr, error) {
	pr := &domain.Pr{}
	err := row.Scan(
		&pr.Id,
		&pr.ExternalId,
		&pr.State,
		&pr.ChannelId,
		&pr.MessageTs,
		&pr.DisplayText,
		&pr.AuthorIdentityId,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

const (
	upsertReviewQuery = `
INSERT INTO reviews(id, pull_request_id, reviewer_identity_id, state)
VALUES ($1, $2, $3, $4)
ON CONFLICT (pull_request_id, reviewer_identity_id) DO UPDATE
SET state = EXCLUDED.state,
    updated_at = now()
RETURNING id, pull_request_id, reviewer_identity_id, state, created_at, updated_at`
)

type ReviewRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewReviewRepository(db *pgxpool.Pool, log *zap.Logger) *ReviewRepository {
	return &ReviewRepository{
		db:  db,
		log: log,
	}
}

// Upsert хранит только последнее ревью каждого ревьюера на pull request
func (r *ReviewRepository) Upsert(ctx context.Context, d *dto.UpsertReviewDTO) (*domain.Review, error) {
	r.log.Info("upsert review",
		zap.String("pr_id", d.PrId.String()),
		zap.String("reviewer_id", d.ReviewerIdentityId.String()),
		zap.String("state", string(d.State)),
	)

	review := &domain.Review{}
	err := r.db.QueryRow(ctx, upsertReviewQuery,
		uuid.New(),
		d.PrId,
		d.ReviewerIdentityId,
		d.State,
	).Scan(
		&review.Id,
		&review.PrId,
		&review.ReviewerIdentityId,
		&review.State,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		r.log.Error("failed to upsert review",
			zap.String("pr_id", d.PrId.String()),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}

	return review, nil
}

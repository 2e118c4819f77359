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
	webhookColumns = `id, hook_id, owner, name, created_at`

	upsertWebhookQuery = `
INSERT INTO webhooks(id, hook_id, owner, name)
VALUES ($1, $2, $3, $4)
ON CONFLICT (owner, name) DO UPDATE
SET hook_id = EXCLUDED.hook_id
RETURNING ` + webhookColumns

	selectWebhooksForReposQuery = `
SELECT ` + webhookColumns + `
FROM webhooks
WHERE (owner, name) IN (SELECT * FROM unnest($1::text[], $2::text[]))`

	selectWebhookQuery = `
SELECT ` + webhookColumns + `
FROM webhooks
WHERE id = $1`

	deleteWebhookQuery = `
DELETE FROM webhooks
WHERE id = $1`
)

type WebhookRepository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewWebhookRepository(db *pgxpool.Pool, log *zap.Logger) *WebhookRepository {
	return &WebhookRepository{
		db:  db,
		log: log,
	}
}

// Create сохраняет регистрацию, id удаленного хука заменяет устаревший локальный
func (r *WebhookRepository) Create(ctx context.Context, d *dto.CreateWebhookDTO) (*domain.Webhook, error) {
	r.log.Info("create webhook",
		zap.String("owner", d.Owner),
		zap.String("name", d.Name),
		zap.String("hook_id", d.HookId),
	)

	hook, err := scanWebhook(r.db.QueryRow(ctx, upsertWebhookQuery, uuid.New(), d.HookId, d.Owner, d.Name))
	if err != nil {
		r.log.Error("failed to create webhook",
			zap.String("owner", d.Owner),
			zap.String("name", d.Name),
			zap.Error(err),
		)
		return nil, handleDBError(err)
	}
	return hook, nil
}

func (r *WebhookRepository) ListForRepos(ctx context.Context, repos []domain.RepoRef) ([]*domain.Webhook, error) {
	hooks := make([]*domain.Webhook, 0)
	if len(repos) == 0 {
		return hooks, nil
	}

	owners := make([]string, 0, len(repos))
	names := make([]string, 0, len(repos))
	for _, repo := range repos {
		owners = append(owners, repo.Owner)
		names = append(names, repo.Name)
	}

	rows, err := r.db.Query(ctx, selectWebhooksForReposQuery, owners, names)
	if err != nil {
		r.log.Error("failed to list webhooks", zap.Int("repos", len(repos)), zap.Error(err))
		return nil, handleDBError(err)
	}
	defer rows.Close()

	for rows.Next() {
		hook, err := scanWebhook(rows)
		if err != nil {
			return nil, handleDBError(err)
		}
		hooks = append(hooks, hook)
	}
	if err := rows.Err(); err != nil {
		return nil, handleDBError(err)
	}

	return hooks, nil
}

func (r *WebhookRepository) FindById(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	hook, err := scanWebhook(r.db.QueryRow(ctx, selectWebhookQuery, id))
	if err != nil {
		return nil, handleDBError(err)
	}
	return hook, nil
}

func (r *WebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.log.Info("delete webhook", zap.String("id", id.String()))

	cmdTag, err := r.db.Exec(ctx, deleteWebhookQuery, id)
	if err != nil {
		r.log.Error("failed to delete webhook", zap.String("id", id.String()), zap.Error(err))
		return handleDBError(err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanWebhook(row pgx.Row) (*domain.Webhook, error) {
	hook := &domain.Webhook{}
	err := row.Scan(
		&hook.Id,
		&hook.HookId,
		&hook.Owner,
		&hook.Name,
		&hook.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return hook, nil
}

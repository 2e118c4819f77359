package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
)

type IdentityRepository interface {
	Find(ctx context.Context, externalId int64) (*domain.Identity, error)
	Create(ctx context.Context, d *dto.IdentityDTO, accountId *uuid.UUID) (*domain.Identity, error)
	Link(ctx context.Context, accountId uuid.UUID, d *dto.IdentityDTO) (*domain.Identity, error)
	ResolveAccount(ctx context.Context, identity *domain.Identity) (*domain.Account, error)
}

type PrRepository interface {
	FindByExternalId(ctx context.Context, externalId string) (*domain.Pr, error)
	Create(ctx context.Context, d *dto.CreatePrDTO) (*domain.Pr, error)
	Transition(ctx context.Context, d *dto.TransitionPrDTO) (*domain.Pr, error)
	ListByState(ctx context.Context, state domain.PrState) ([]*domain.Pr, error)
}

type ReviewRepository interface {
	Upsert(ctx context.Context, d *dto.UpsertReviewDTO) (*domain.Review, error)
}

type AccountRepository interface {
	FindByChatUserId(ctx context.Context, chatUserId string) (*domain.Account, error)
	Upsert(ctx context.Context, d *dto.UpsertAccountDTO) (*domain.Account, error)
	SetCodeHostToken(ctx context.Context, d *dto.SetCodeHostTokenDTO) (*domain.Account, error)
}

type WebhookRepository interface {
	Create(ctx context.Context, d *dto.CreateWebhookDTO) (*domain.Webhook, error)
	ListForRepos(ctx context.Context, repos []domain.RepoRef) ([]*domain.Webhook, error)
	FindById(ctx context.Context, id uuid.UUID) (*domain.Webhook, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CodeHostGateway interface {
	FetchPr(ctx context.Context, ref domain.PrRef, token string) (*domain.PrDetails, error)
	FetchChangedFiles(ctx context.Context, pr *domain.PrDetails, token string) ([]domain.FileChange, error)
	RegisterWebhook(ctx context.Context, repo domain.RepoRef, callbackUrl, token string) (*domain.WebhookHandle, error)
	DeregisterWebhook(ctx context.Context, hook *domain.Webhook, token string) error
	FetchAccountIdentity(ctx context.Context, token string) (*domain.User, error)
	ListRepositories(ctx context.Context, token, page string) (*domain.RepoPage, error)
	ExchangeCode(ctx context.Context, code string) (string, error)
}

type ChatGateway interface {
	PostMessage(ctx context.Context, pr *domain.PrDetails, icons []string, channel string, account *domain.Account) (*domain.MessageRef, error)
	UpdateMessage(ctx context.Context, pr *domain.PrDetails, icons []string, ref domain.MessageRef, account *domain.Account) (*domain.MessageRef, error)
	AddReaction(ctx context.Context, reaction domain.Reaction, ref domain.MessageRef, account *domain.Account) error
	PostText(ctx context.Context, text, channel string) (*domain.MessageRef, error)
	EphemeralAck(text string) ([]byte, error)
	ExchangeOAuthCode(ctx context.Context, code, redirectUri string) (*domain.ChatOAuth, error)
}

type IconLookup interface {
	Icons(files []domain.FileChange) []string
}

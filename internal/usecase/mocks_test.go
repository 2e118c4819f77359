package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"github.com/stretchr/testify/mock"
)

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) Find(ctx context.Context, externalId int64) (*domain.Identity, error) {
	args := m.Called(ctx, externalId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) Create(ctx context.Context, d *dto.IdentityDTO, accountId *uuid.UUID) (*domain.Identity, error) {
	args := m.Called(ctx, d, accountId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) Link(ctx context.Context, accountId uuid.UUID, d *dto.IdentityDTO) (*domain.Identity, error) {
	args := m.Called(ctx, accountId, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) ResolveAccount(ctx context.Context, identity *domain.Identity) (*domain.Account, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockPrRepository struct {
	mock.Mock
}

func (m *MockPrRepository) FindByExternalId(ctx context.Context, externalId string) (*domain.Pr, error) {
	args := m.Called(ctx, externalId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pr), args.Error(1)
}

func (m *MockPrRepository) Create(ctx context.Context, d *dto.CreatePrDTO) (*domain.Pr, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pr), args.Error(1)
}

func (m *MockPrRepository) Transition(ctx context.Context, d *dto.TransitionPrDTO) (*domain.Pr, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Pr), args.Error(1)
}

func (m *MockPrRepository) ListByState(ctx context.Context, state domain.PrState) ([]*domain.Pr, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Pr), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Upsert(ctx context.Context, d *dto.UpsertReviewDTO) (*domain.Review, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByChatUserId(ctx context.Context, chatUserId string) (*domain.Account, error) {
	args := m.Called(ctx, chatUserId)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) Upsert(ctx context.Context, d *dto.UpsertAccountDTO) (*domain.Account, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SetCodeHostToken(ctx context.Context, d *dto.SetCodeHostTokenDTO) (*domain.Account, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

type MockWebhookRepository struct {
	mock.Mock
}

func (m *MockWebhookRepository) Create(ctx context.Context, d *dto.CreateWebhookDTO) (*domain.Webhook, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) ListForRepos(ctx context.Context, repos []domain.RepoRef) ([]*domain.Webhook, error) {
	args := m.Called(ctx, repos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) FindById(ctx context.Context, id uuid.UUID) (*domain.Webhook, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Webhook), args.Error(1)
}

func (m *MockWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCodeHost struct {
	mock.Mock
}

func (m *MockCodeHost) FetchPr(ctx context.Context, ref domain.PrRef, token string) (*domain.PrDetails, error) {
	args := m.Called(ctx, ref, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrDetails), args.Error(1)
}

func (m *MockCodeHost) FetchChangedFiles(ctx context.Context, pr *domain.PrDetails, token string) ([]domain.FileChange, error) {
	args := m.Called(ctx, pr, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FileChange), args.Error(1)
}

func (m *MockCodeHost) RegisterWebhook(ctx context.Context, repo domain.RepoRef, callbackUrl, token string) (*domain.WebhookHandle, error) {
	args := m.Called(ctx, repo, callbackUrl, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookHandle), args.Error(1)
}

func (m *MockCodeHost) DeregisterWebhook(ctx context.Context, hook *domain.Webhook, token string) error {
	args := m.Called(ctx, hook, token)
	return args.Error(0)
}

func (m *MockCodeHost) FetchAccountIdentity(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockCodeHost) ListRepositories(ctx context.Context, token, page string) (*domain.RepoPage, error) {
	args := m.Called(ctx, token, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RepoPage), args.Error(1)
}

func (m *MockCodeHost) ExchangeCode(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

type MockChat struct {
	mock.Mock
}

func (m *MockChat) PostMessage(ctx context.Context, pr *domain.PrDetails, icons []string, channel string, account *domain.Account) (*domain.MessageRef, error) {
	args := m.Called(ctx, pr, icons, channel, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageRef), args.Error(1)
}

func (m *MockChat) UpdateMessage(ctx context.Context, pr *domain.PrDetails, icons []string, ref domain.MessageRef, account *domain.Account) (*domain.MessageRef, error) {
	args := m.Called(ctx, pr, icons, ref, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageRef), args.Error(1)
}

func (m *MockChat) AddReaction(ctx context.Context, reaction domain.Reaction, ref domain.MessageRef, account *domain.Account) error {
	args := m.Called(ctx, reaction, ref, account)
	return args.Error(0)
}

func (m *MockChat) PostText(ctx context.Context, text, channel string) (*domain.MessageRef, error) {
	args := m.Called(ctx, text, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageRef), args.Error(1)
}

func (m *MockChat) EphemeralAck(text string) ([]byte, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChat) ExchangeOAuthCode(ctx context.Context, code, redirectUri string) (*domain.ChatOAuth, error) {
	args := m.Called(ctx, code, redirectUri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatOAuth), args.Error(1)
}

type MockIcons struct {
	mock.Mock
}

func (m *MockIcons) Icons(files []domain.FileChange) []string {
	args := m.Called(files)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

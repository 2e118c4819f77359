package handler

import (
	"context"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/usecase"
	"github.com/stretchr/testify/mock"
)

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) HandlePrEvent(ctx context.Context, ev *domain.PrEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

func (m *MockSyncService) HandleReviewEvent(ctx context.Context, ev *domain.ReviewEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type MockCommandService struct {
	mock.Mock
}

func (m *MockCommandService) Review(ctx context.Context, cmd *domain.SlashCommand) ([]byte, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCommandService) Reviews(ctx context.Context, cmd *domain.SlashCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockRepoService struct {
	mock.Mock
}

func (m *MockRepoService) ListRepos(ctx context.Context, chatUserId, page string) (*usecase.RepoList, error) {
	args := m.Called(ctx, chatUserId, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.RepoList), args.Error(1)
}

func (m *MockRepoService) CreateWebhook(ctx context.Context, chatUserId string, repo domain.RepoRef) (*domain.Webhook, error) {
	args := m.Called(ctx, chatUserId, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Webhook), args.Error(1)
}

func (m *MockRepoService) DeleteWebhook(ctx context.Context, chatUserId string, id uuid.UUID) error {
	args := m.Called(ctx, chatUserId, id)
	return args.Error(0)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SlackLogin(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAuthService) ConnectGitHub(ctx context.Context, chatUserId, code string) (*domain.Identity, error) {
	args := m.Called(ctx, chatUserId, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

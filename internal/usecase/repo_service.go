package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"go.uber.org/zap"
)

const eventPath = "/github_event"

type RepoWithWebhook struct {
	Repo    domain.Repo
	Webhook *domain.Webhook
}

type RepoList struct {
	Repos []RepoWithWebhook
	Links domain.PageLinks
}

// RepoService управляет репозиториями подключенного аккаунта,
// подписанными на автоматические уведомления
type RepoService struct {
	accounts AccountRepository
	webhooks WebhookRepository
	codeHost CodeHostGateway
	appUrl   string
	log      *zap.Logger
}

func NewRepoService(
	accounts AccountRepository,
	webhooks WebhookRepository,
	codeHost CodeHostGateway,
	appUrl string,
	log *zap.Logger,
) *RepoService {
	return &RepoService{
		accounts: accounts,
		webhooks: webhooks,
		codeHost: codeHost,
		appUrl:   strings.TrimSuffix(appUrl, "/"),
		log:      log,
	}
}

func (s *RepoService) CallbackUrl() string {
	return s.appUrl + eventPath
}

func (s *RepoService) ListRepos(ctx context.Context, chatUserId, page string) (*RepoList, error) {
	token, err := s.token(ctx, chatUserId)
	if err != nil {
		return nil, err
	}

	res, err := s.codeHost.ListRepositories(ctx, token, page)
	if err != nil {
		return nil, gatewayError(err)
	}

	refs := make([]domain.RepoRef, 0, len(res.Repos))
	for _, r := range res.Repos {
		refs = append(refs, domain.RepoRef{Owner: r.Owner, Name: r.Name})
	}

	hooks, err := s.webhooks.ListForRepos(ctx, refs)
	if err != nil {
		return nil, storageError(err)
	}

	byRepo := make(map[domain.RepoRef]*domain.Webhook, len(hooks))
	for _, h := range hooks {
		byRepo[domain.RepoRef{Owner: h.Owner, Name: h.Name}] = h
	}

	list := &RepoList{
		Repos: make([]RepoWithWebhook, 0, len(res.Repos)),
		Links: res.Links,
	}
	for _, r := range res.Repos {
		list.Repos = append(list.Repos, RepoWithWebhook{
			Repo:    r,
			Webhook: byRepo[domain.RepoRef{Owner: r.Owner, Name: r.Name}],
		})
	}

	return list, nil
}

// CreateWebhook регистрирует хук в репозитории, переиспользуя уже
// указывающий на сервис, и сохраняет его
func (s *RepoService) CreateWebhook(ctx context.Context, chatUserId string, repo domain.RepoRef) (*domain.Webhook, error) {
	if repo.Owner == "" || repo.Name == "" {
		return nil, WrapError(ErrMalformedInput, fmt.Errorf("owner and name are required"))
	}

	token, err := s.token(ctx, chatUserId)
	if err != nil {
		return nil, err
	}

	handle, err := s.codeHost.RegisterWebhook(ctx, repo, s.CallbackUrl(), token)
	if err != nil {
		return nil, gatewayError(err)
	}

	hook, err := s.webhooks.Create(ctx, &dto.CreateWebhookDTO{
		HookId: strconv.FormatInt(handle.Id, 10),
		Owner:  repo.Owner,
		Name:   repo.Name,
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.log.Info("webhook registered",
		zap.String("owner", repo.Owner),
		zap.String("name", repo.Name),
		zap.String("hook_id", hook.HookId),
	)
	return hook, nil
}

func (s *RepoService) DeleteWebhook(ctx context.Context, chatUserId string, id uuid.UUID) error {
	token, err := s.token(ctx, chatUserId)
	if err != nil {
		return err
	}

	hook, err := s.webhooks.FindById(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WrapError(ErrWebhookNotFound, err)
		}
		return storageError(err)
	}

	// хук уже удален на стороне GitHub, остается удалить локальную запись
	if err := s.codeHost.DeregisterWebhook(ctx, hook, token); err != nil && !errors.Is(err, domain.ErrUpstreamNotFound) {
		return gatewayError(err)
	}

	if err := s.webhooks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WrapError(ErrWebhookNotFound, err)
		}
		return storageError(err)
	}

	s.log.Info("webhook removed",
		zap.String("owner", hook.Owner),
		zap.String("name", hook.Name),
	)
	return nil
}

func (s *RepoService) token(ctx context.Context, chatUserId string) (string, error) {
	account, err := s.accounts.FindByChatUserId(ctx, chatUserId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", WrapError(ErrAccountNotFound, err)
		}
		return "", storageError(err)
	}
	if !account.HasCodeHostToken() {
		return "", ErrNotConnected
	}
	return *account.CodeHostAccessToken, nil
}

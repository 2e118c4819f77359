package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"go.uber.org/zap"
)

// maxTransitionAttempts ограничивает перечитывания, когда параллельные
// доставки меняют один и тот же pull request
const maxTransitionAttempts = 3

type SyncConfig struct {
	// Channel получает сообщения об открытых pull request
	Channel string
	// BotToken читает измененные файлы, если у автора нет привязанного аккаунта
	BotToken string
}

// SyncService синхронизирует записи pull request и сообщения в Slack с событиями GitHub
type SyncService struct {
	identities IdentityRepository
	prs        PrRepository
	reviews    ReviewRepository
	codeHost   CodeHostGateway
	chat       ChatGateway
	icons      IconLookup
	cfg        SyncConfig
	log        *zap.Logger
}

func NewSyncService(
	identities IdentityRepository,
	prs PrRepository,
	reviews ReviewRepository,
	codeHost CodeHostGateway,
	chat ChatGateway,
	icons IconLookup,
	cfg SyncConfig,
	log *zap.Logger,
) *SyncService {
	return &SyncService{
		identities: identities,
		prs:        prs,
		reviews:    reviews,
		codeHost:   codeHost,
		chat:       chat,
		icons:      icons,
		cfg:        cfg,
		log:        log,
	}
}

func (s *SyncService) HandlePrEvent(ctx context.Context, ev *domain.PrEvent) error {
	s.log.Info("pull request event accepted",
		zap.String("action", string(ev.Action)),
		zap.String("pr_id", ev.PullRequest.ExternalId()),
		zap.Bool("auto_hook", ev.AutoHook),
	)

	switch ev.Action {
	case domain.PrActionOpened, domain.PrActionReadyForReview:
		return s.prOpened(ctx, ev)
	case domain.PrActionClosed:
		return s.prClosed(ctx, ev)
	default:
		return WrapError(ErrUnhandledAction, fmt.Errorf("pull_request action %q", ev.Action))
	}
}

func (s *SyncService) prOpened(ctx context.Context, ev *domain.PrEvent) error {
	pr := &ev.PullRequest
	prId := pr.ExternalId()

	if ev.AutoHook {
		return ErrAutoHookIgnored
	}
	if pr.Draft {
		s.log.Info("draft pull request skipped", zap.String("pr_id", prId))
		return ErrDraftIgnored
	}

	// повторная доставка не должна публиковать второе сообщение
	existing, err := s.prs.FindByExternalId(ctx, prId)
	if err == nil && existing != nil {
		s.log.Info("pull request already recorded", zap.String("pr_id", prId))
		return nil
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return storageError(err)
	}

	author, account, err := s.resolveIdentity(ctx, pr.Author)
	if err != nil {
		return err
	}

	icons := s.fileIcons(ctx, pr, account)

	ref, err := s.chat.PostMessage(ctx, pr, icons, s.cfg.Channel, account)
	if err != nil {
		return gatewayError(err)
	}

	_, err = s.prs.Create(ctx, &dto.CreatePrDTO{
		ExternalId:       prId,
		State:            domain.PrStateOpen,
		ChannelId:        ref.Channel,
		MessageTs:        ref.Ts,
		DisplayText:      pr.DisplayText(),
		AuthorIdentityId: author.Id,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.log.Info("concurrent delivery already recorded pull request", zap.String("pr_id", prId))
			return nil
		}
		return storageError(err)
	}

	s.log.Info("pull request opened",
		zap.String("pr_id", prId),
		zap.String("channel", ref.Channel),
		zap.String("ts", ref.Ts),
	)
	return nil
}

func (s *SyncService) prClosed(ctx context.Context, ev *domain.PrEvent) error {
	pr := &ev.PullRequest
	prId := pr.ExternalId()

	stored, err := s.prs.Transition(ctx, &dto.TransitionPrDTO{ExternalId: prId, State: domain.PrStateClosed})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return WrapError(ErrPrNotFound, fmt.Errorf("%s", prId))
		}
		return storageError(err)
	}

	if ev.AutoHook {
		s.log.Info("pull request closed without chat update", zap.String("pr_id", prId))
		return nil
	}

	_, account, err := s.resolveIdentity(ctx, pr.Author)
	if err != nil {
		return err
	}

	icons := s.fileIcons(ctx, pr, account)

	if _, err := s.chat.UpdateMessage(ctx, pr, icons, stored.MessageRef(), account); err != nil {
		s.log.Warn("pull request closed but chat message left stale",
			zap.String("pr_id", prId),
			zap.Error(err),
		)
		return gatewayError(err)
	}

	s.log.Info("pull request closed", zap.String("pr_id", prId))
	return nil
}

func (s *SyncService) HandleReviewEvent(ctx context.Context, ev *domain.ReviewEvent) error {
	prId := ev.PullRequest.ExternalId()
	s.log.Info("review event accepted",
		zap.String("action", string(ev.Action)),
		zap.String("pr_id", prId),
		zap.String("reviewer", ev.Reviewer.Login),
		zap.String("state", string(ev.State)),
	)

	if ev.Action != domain.ReviewActionSubmitted {
		return nil
	}

	if ev.Reviewer.Id == ev.PullRequest.Author.Id {
		s.log.Info("self review skipped", zap.String("pr_id", prId))
		return ErrSelfReview
	}

	reviewer, account, err := s.resolveIdentity(ctx, ev.Reviewer)
	if err != nil {
		return err
	}

	pr, err := s.advance(ctx, prId, ev.State)
	if err != nil {
		return err
	}

	_, err = s.reviews.Upsert(ctx, &dto.UpsertReviewDTO{
		PrId:               pr.Id,
		ReviewerIdentityId: reviewer.Id,
		State:              ev.State,
	})
	if err != nil {
		return storageError(err)
	}

	if err := s.chat.AddReaction(ctx, domain.ReactionFor(ev.State), pr.MessageRef(), account); err != nil {
		return gatewayError(err)
	}

	s.log.Info("review recorded",
		zap.String("pr_id", prId),
		zap.String("pr_state", string(pr.State)),
	)
	return nil
}

// advance применяет ревью к сохраненному состоянию pull request. Запись
// выполняется только из прочитанного состояния; если другая доставка успела
// его изменить, запись перечитывается и ревью применяется к новому состоянию
func (s *SyncService) advance(ctx context.Context, prId string, review domain.ReviewState) (*domain.Pr, error) {
	for attempt := 0; attempt < maxTransitionAttempts; attempt++ {
		pr, err := s.prs.FindByExternalId(ctx, prId)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, WrapError(ErrPrNotFound, fmt.Errorf("%s", prId))
			}
			return nil, storageError(err)
		}

		next := nextState(pr.State, review)
		if next == pr.State {
			return pr, nil
		}

		updated, err := s.prs.Transition(ctx, &dto.TransitionPrDTO{ExternalId: prId, From: pr.State, State: next})
		switch {
		case err == nil:
			return updated, nil
		case errors.Is(err, repository.ErrStateChanged):
			s.log.Info("pull request changed during review, retrying",
				zap.String("pr_id", prId),
				zap.String("read_state", string(pr.State)),
			)
		case errors.Is(err, repository.ErrNotFound):
			return nil, WrapError(ErrPrNotFound, fmt.Errorf("%s", prId))
		default:
			return nil, storageError(err)
		}
	}

	return nil, storageError(fmt.Errorf("%s: %w", prId, repository.ErrStateChanged))
}

// nextState двигает только открытый pull request вперед, в approved
func nextState(current domain.PrState, review domain.ReviewState) domain.PrState {
	if current == domain.PrStateOpen && review == domain.ReviewStateApproved {
		return domain.PrStateApproved
	}
	return current
}

// resolveIdentity находит или создает пользователя GitHub
// и возвращает привязанный аккаунт, если он есть
func (s *SyncService) resolveIdentity(ctx context.Context, user domain.User) (*domain.Identity, *domain.Account, error) {
	identity, err := s.identities.Find(ctx, user.Id)
	if err != nil {
		return nil, nil, storageError(err)
	}

	if identity == nil {
		identity, err = s.identities.Create(ctx, &dto.IdentityDTO{
			ExternalId: user.Id,
			Login:      user.Login,
			AvatarUrl:  user.AvatarUrl,
		}, nil)
		if err != nil {
			return nil, nil, storageError(err)
		}
	}

	account, err := s.identities.ResolveAccount(ctx, identity)
	if err != nil {
		return nil, nil, storageError(err)
	}

	return identity, account, nil
}

// fileIcons не возвращает ошибку: без списка файлов сообщение уходит без иконок
func (s *SyncService) fileIcons(ctx context.Context, pr *domain.PrDetails, account *domain.Account) []string {
	token := s.cfg.BotToken
	if account.HasCodeHostToken() {
		token = *account.CodeHostAccessToken
	}

	files, err := s.codeHost.FetchChangedFiles(ctx, pr, token)
	if err != nil {
		s.log.Warn("changed files unavailable",
			zap.String("pr_id", pr.ExternalId()),
			zap.Error(err),
		)
		return []string{}
	}

	return s.icons.Icons(files)
}

package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/models/dto"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memStore хранит пользователей, pull request и ревью в памяти
// с теми же конфликтами и not found, что и репозитории postgres
type memStore struct {
	mu         sync.Mutex
	identities map[int64]*domain.Identity
	prs        map[string]*domain.Pr
	reviews    map[[2]uuid.UUID]*domain.Review
}

func newMemStore() *memStore {
	return &memStore{
		identities: make(map[int64]*domain.Identity),
		prs:        make(map[string]*domain.Pr),
		reviews:    make(map[[2]uuid.UUID]*domain.Review),
	}
}

type memIdentities struct{ *memStore }
type memPrs struct{ *memStore }
type memReviews struct{ *memStore }

func (s memIdentities) Find(_ context.Context, externalId int64) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identities[externalId], nil
}

func (s memIdentities) Create(_ context.Context, d *dto.IdentityDTO, accountId *uuid.UUID) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.identities[d.ExternalId]; ok {
		return existing, nil
	}
	identity := &domain.Identity{Id: uuid.New(), ExternalId: d.ExternalId, Login: d.Login, AccountId: accountId}
	s.identities[d.ExternalId] = identity
	return identity, nil
}

func (s memIdentities) Link(_ context.Context, accountId uuid.UUID, d *dto.IdentityDTO) (*domain.Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	identity := &domain.Identity{Id: uuid.New(), ExternalId: d.ExternalId, Login: d.Login, AccountId: &accountId}
	s.identities[d.ExternalId] = identity
	return identity, nil
}

func (s memIdentities) ResolveAccount(context.Context, *domain.Identity) (*domain.Account, error) {
	return nil, nil
}

func (s memPrs) FindByExternalId(_ context.Context, externalId string) (*domain.Pr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.prs[externalId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *pr
	return &cp, nil
}

func (s memPrs) Create(_ context.Context, d *dto.CreatePrDTO) (*domain.Pr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.prs[d.ExternalId]; ok {
		return nil, repository.ErrAlreadyExists
	}
	pr := &domain.Pr{
		Id:               uuid.New(),
		ExternalId:       d.ExternalId,
		State:            d.State,
		ChannelId:        d.ChannelId,
		MessageTs:        d.MessageTs,
		DisplayText:      d.DisplayText,
		AuthorIdentityId: d.AuthorIdentityId,
	}
	s.prs[d.ExternalId] = pr
	cp := *pr
	return &cp, nil
}

func (s memPrs) Transition(_ context.Context, d *dto.TransitionPrDTO) (*domain.Pr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr, ok := s.prs[d.ExternalId]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if d.From != "" && pr.State != d.From {
		return nil, repository.ErrStateChanged
	}
	pr.State = d.State
	cp := *pr
	return &cp, nil
}

func (s memPrs) ListByState(_ context.Context, state domain.PrState) ([]*domain.Pr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]*domain.Pr, 0)
	for _, pr := range s.prs {
		if pr.State == state {
			cp := *pr
			res = append(res, &cp)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ExternalId < res[j].ExternalId })
	return res, nil
}

func (s memReviews) Upsert(_ context.Context, d *dto.UpsertReviewDTO) (*domain.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uuid.UUID{d.PrId, d.ReviewerIdentityId}
	review, ok := s.reviews[key]
	if !ok {
		review = &domain.Review{Id: uuid.New(), PrId: d.PrId, ReviewerIdentityId: d.ReviewerIdentityId}
		s.reviews[key] = review
	}
	review.State = d.State
	return review, nil
}

func TestScenario_PullRequestLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	codeHost := new(MockCodeHost)
	chat := new(MockChat)
	icons := new(MockIcons)

	engine := NewSyncService(memIdentities{store}, memPrs{store}, memReviews{store}, codeHost, chat, icons,
		SyncConfig{Channel: "C1", BotToken: "bot-token"}, zap.NewNop())
	commands := NewCommandService(new(MockAccountRepository), memPrs{store}, codeHost, chat, icons, testAppUrl, zap.NewNop())

	ref := domain.MessageRef{Channel: "C1", Ts: "1700000000.000100"}
	codeHost.On("FetchChangedFiles", mock.Anything, mock.Anything, "bot-token").
		Return([]domain.FileChange{{Filename: "main.go", Extension: "go"}}, nil)
	icons.On("Icons", mock.Anything).Return([]string{":golang:"})
	chat.On("PostMessage", mock.Anything, mock.Anything, []string{":golang:"}, "C1", noAccount).Return(&ref, nil).Once()
	chat.On("AddReaction", mock.Anything, domain.ReactionApprove, ref, noAccount).Return(nil).Once()
	chat.On("AddReaction", mock.Anything, domain.ReactionComment, ref, noAccount).Return(nil).Once()
	chat.On("UpdateMessage", mock.Anything, mock.Anything, mock.Anything, ref, noAccount).Return(&ref, nil).Once()
	chat.On("PostText", mock.Anything, "(+10 -3) https://github.com/acme/widgets/pull/42 by alice", "C2").Return(&ref, nil).Once()
	chat.On("PostText", mock.Anything, allReviewedText, "C2").Return(&ref, nil).Once()

	opened := &domain.PrEvent{Action: domain.PrActionOpened, Number: 42, PullRequest: widgetsPr()}
	require.NoError(t, engine.HandlePrEvent(ctx, opened))
	// повторная доставка поглощается
	require.NoError(t, engine.HandlePrEvent(ctx, opened))

	stored, err := memPrs{store}.FindByExternalId(ctx, "acme/widgets-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PrStateOpen, stored.State)
	assert.Equal(t, ref, stored.MessageRef())

	require.NoError(t, commands.Reviews(ctx, &domain.SlashCommand{ChannelId: "C2"}))

	require.NoError(t, engine.HandleReviewEvent(ctx, approvedReview()))

	commented := approvedReview()
	commented.Reviewer = domain.User{Id: 3, Login: "carol"}
	commented.State = domain.ReviewStateCommented
	require.NoError(t, engine.HandleReviewEvent(ctx, commented))

	stored, err = memPrs{store}.FindByExternalId(ctx, "acme/widgets-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PrStateApproved, stored.State)
	assert.Len(t, store.reviews, 2)

	closed := widgetsPr()
	closed.State = "closed"
	require.NoError(t, engine.HandlePrEvent(ctx, &domain.PrEvent{Action: domain.PrActionClosed, Number: 42, PullRequest: closed}))

	stored, err = memPrs{store}.FindByExternalId(ctx, "acme/widgets-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PrStateClosed, stored.State)

	require.NoError(t, commands.Reviews(ctx, &domain.SlashCommand{ChannelId: "C2"}))

	chat.AssertExpectations(t)
	assert.Len(t, store.identities, 3)
}

// closingPrs закрывает pull request сразу после первого чтения, как если бы
// доставка closed закоммитилась между чтением и записью ревью
type closingPrs struct {
	memPrs
	closed bool
}

func (s *closingPrs) FindByExternalId(ctx context.Context, externalId string) (*domain.Pr, error) {
	pr, err := s.memPrs.FindByExternalId(ctx, externalId)
	if err == nil && !s.closed {
		s.closed = true
		_, err = s.memPrs.Transition(ctx, &dto.TransitionPrDTO{ExternalId: externalId, State: domain.PrStateClosed})
	}
	return pr, err
}

func TestScenario_CloseRacingApproval(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	prs := &closingPrs{memPrs: memPrs{store}}

	codeHost := new(MockCodeHost)
	chat := new(MockChat)
	icons := new(MockIcons)

	author, err := memIdentities{store}.Create(ctx, &dto.IdentityDTO{ExternalId: 1, Login: "alice"}, nil)
	require.NoError(t, err)
	_, err = prs.Create(ctx, &dto.CreatePrDTO{
		ExternalId:       "acme/widgets-42",
		State:            domain.PrStateOpen,
		ChannelId:        "C1",
		MessageTs:        "1.1",
		AuthorIdentityId: author.Id,
	})
	require.NoError(t, err)

	chat.On("AddReaction", mock.Anything, domain.ReactionApprove, domain.MessageRef{Channel: "C1", Ts: "1.1"}, (*domain.Account)(nil)).Return(nil)

	engine := NewSyncService(memIdentities{store}, prs, memReviews{store}, codeHost, chat, icons,
		SyncConfig{Channel: "C1"}, zap.NewNop())

	require.NoError(t, engine.HandleReviewEvent(ctx, approvedReview()))

	stored, err := memPrs{store}.FindByExternalId(ctx, "acme/widgets-42")
	require.NoError(t, err)
	assert.Equal(t, domain.PrStateClosed, stored.State)
	assert.Len(t, store.reviews, 1)
	chat.AssertExpectations(t)
}

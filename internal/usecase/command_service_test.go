package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAppUrl = "https://bot.example.com"

type commandFixture struct {
	accounts *MockAccountRepository
	prs      *MockPrRepository
	codeHost *MockCodeHost
	chat     *MockChat
	icons    *MockIcons
	svc      *CommandService
}

func newCommandFixture() *commandFixture {
	f := &commandFixture{
		accounts: new(MockAccountRepository),
		prs:      new(MockPrRepository),
		codeHost: new(MockCodeHost),
		chat:     new(MockChat),
		icons:    new(MockIcons),
	}
	f.svc = NewCommandService(f.accounts, f.prs, f.codeHost, f.chat, f.icons, testAppUrl, zap.NewNop())
	return f
}

func connectedAccount(chatUserId string) *domain.Account {
	token := "gh-" + chatUserId
	return &domain.Account{Id: uuid.New(), ChatUserId: chatUserId, CodeHostAccessToken: &token}
}

func TestCommandService_Review_Onboarding(t *testing.T) {
	onboarding := fmt.Sprintf(onboardingFormat, testAppUrl)

	tests := []struct {
		name    string
		account *domain.Account
		err     error
	}{
		{name: "unknown user", err: repository.ErrNotFound},
		{name: "not connected", account: &domain.Account{Id: uuid.New(), ChatUserId: "U1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommandFixture()
			if tt.account != nil {
				f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(tt.account, nil)
			} else {
				f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(nil, tt.err)
			}
			f.chat.On("EphemeralAck", onboarding).Return([]byte(`{"text":"x"}`), nil)

			body, err := f.svc.Review(context.Background(), &domain.SlashCommand{UserId: "U1", Text: "https://github.com/acme/widgets/pull/42"})

			require.NoError(t, err)
			assert.Equal(t, []byte(`{"text":"x"}`), body)
			f.codeHost.AssertNotCalled(t, "FetchPr", mock.Anything, mock.Anything, mock.Anything)
			f.chat.AssertExpectations(t)
		})
	}
}

func TestCommandService_Review_Usage(t *testing.T) {
	f := newCommandFixture()
	f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(connectedAccount("U1"), nil)
	f.chat.On("EphemeralAck", usageText).Return([]byte("usage"), nil)

	body, err := f.svc.Review(context.Background(), &domain.SlashCommand{UserId: "U1", Text: "   "})

	require.NoError(t, err)
	assert.Equal(t, []byte("usage"), body)
	f.chat.AssertExpectations(t)
}

func TestCommandService_Review_MalformedUrl(t *testing.T) {
	f := newCommandFixture()
	f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(connectedAccount("U1"), nil)

	_, err := f.svc.Review(context.Background(), &domain.SlashCommand{UserId: "U1", Text: "not a url"})

	assert.ErrorIs(t, err, ErrMalformedInput)
	f.codeHost.AssertNotCalled(t, "FetchPr", mock.Anything, mock.Anything, mock.Anything)
}

func TestCommandService_Review_PostsToCommandChannel(t *testing.T) {
	f := newCommandFixture()
	pr := widgetsPr()
	files := []domain.FileChange{{Filename: "main.go", Extension: "go"}}
	ref := domain.PrRef{Owner: "acme", Name: "widgets", Number: 42}

	f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(connectedAccount("U1"), nil)
	f.codeHost.On("FetchPr", mock.Anything, ref, "gh-U1").Return(&pr, nil)
	f.codeHost.On("FetchChangedFiles", mock.Anything, &pr, "gh-U1").Return(files, nil)
	f.icons.On("Icons", files).Return([]string{":golang:"})
	f.chat.On("PostMessage", mock.Anything, &pr, []string{":golang:"}, "C9", noAccount).
		Return(&domain.MessageRef{Channel: "C9", Ts: "2.2"}, nil)

	body, err := f.svc.Review(context.Background(), &domain.SlashCommand{
		UserId:    "U1",
		ChannelId: "C9",
		Text:      "<https://GitHub.com/Acme/Widgets/pull/42|acme/widgets#42>",
	})

	require.NoError(t, err)
	assert.Nil(t, body)
	f.codeHost.AssertExpectations(t)
	f.chat.AssertExpectations(t)
	f.prs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCommandService_Review_RemoteNotFound(t *testing.T) {
	f := newCommandFixture()
	f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(connectedAccount("U1"), nil)
	f.codeHost.On("FetchPr", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: 404", domain.ErrUpstreamNotFound))

	_, err := f.svc.Review(context.Background(), &domain.SlashCommand{UserId: "U1", Text: "https://github.com/acme/widgets/pull/999"})

	assert.ErrorIs(t, err, ErrRemoteNotFound)
}

func TestCommandService_Review_StorageError(t *testing.T) {
	f := newCommandFixture()
	f.accounts.On("FindByChatUserId", mock.Anything, "U1").Return(nil, errors.New("connection reset"))

	_, err := f.svc.Review(context.Background(), &domain.SlashCommand{UserId: "U1"})

	assert.ErrorIs(t, err, ErrStorage)
}

func TestCommandService_Reviews(t *testing.T) {
	tests := []struct {
		name string
		prs  []*domain.Pr
		want string
	}{
		{
			name: "open pull requests",
			prs: []*domain.Pr{
				{DisplayText: "(+1 -0) https://github.com/acme/a/pull/1 by alice"},
				{DisplayText: "(+2 -5) https://github.com/acme/b/pull/7 by bob"},
			},
			want: "(+1 -0) https://github.com/acme/a/pull/1 by alice\n(+2 -5) https://github.com/acme/b/pull/7 by bob",
		},
		{
			name: "nothing open",
			prs:  []*domain.Pr{},
			want: allReviewedText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCommandFixture()
			f.prs.On("ListByState", mock.Anything, domain.PrStateOpen).Return(tt.prs, nil)
			f.chat.On("PostText", mock.Anything, tt.want, "C9").Return(&domain.MessageRef{Channel: "C9", Ts: "3.3"}, nil)

			err := f.svc.Reviews(context.Background(), &domain.SlashCommand{ChannelId: "C9"})

			require.NoError(t, err)
			f.chat.AssertExpectations(t)
		})
	}
}

func TestCommandService_Reviews_ChatFailure(t *testing.T) {
	f := newCommandFixture()
	f.prs.On("ListByState", mock.Anything, domain.PrStateOpen).Return([]*domain.Pr{}, nil)
	f.chat.On("PostText", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: not_in_channel", domain.ErrChatSoftFailure))

	err := f.svc.Reviews(context.Background(), &domain.SlashCommand{ChannelId: "C9"})

	assert.ErrorIs(t, err, ErrChatFailed)
}

func TestUnwrapLink(t *testing.T) {
	assert.Equal(t, "https://github.com/a/b/pull/1", unwrapLink("<https://github.com/a/b/pull/1>"))
	assert.Equal(t, "https://github.com/a/b/pull/1", unwrapLink("<https://github.com/a/b/pull/1|a/b#1>"))
	assert.Equal(t, "https://github.com/a/b/pull/1", unwrapLink("https://github.com/a/b/pull/1"))
}

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

// AuthService сохраняет токены, полученные через OAuth Slack и GitHub
type AuthService struct {
	accounts    AccountRepository
	identities  IdentityRepository
	codeHost    CodeHostGateway
	chat        ChatGateway
	redirectUrl string
	log         *zap.Logger
}

func NewAuthService(
	accounts AccountRepository,
	identities IdentityRepository,
	codeHost CodeHostGateway,
	chat ChatGateway,
	redirectUrl string,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		accounts:    accounts,
		identities:  identities,
		codeHost:    codeHost,
		chat:        chat,
		redirectUrl: redirectUrl,
		log:         log,
	}
}

func (s *AuthService) SlackLogin(ctx context.Context, code string) (*domain.Account, error) {
	if code == "" {
		return nil, WrapError(ErrMalformedInput, fmt.Errorf("code is required"))
	}

	oauth, err := s.chat.ExchangeOAuthCode(ctx, code, s.redirectUrl)
	if err != nil {
		return nil, gatewayError(err)
	}

	account, err := s.accounts.Upsert(ctx, &dto.UpsertAccountDTO{
		ChatUserId:      oauth.UserId,
		ChatAccessToken: oauth.AccessToken,
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.log.Info("slack account signed in", zap.String("chat_user_id", account.ChatUserId))
	return account, nil
}

// ConnectGitHub привязывает аккаунт Slack к пользователю GitHub, владельцу кода авторизации
func (s *AuthService) ConnectGitHub(ctx context.Context, chatUserId, code string) (*domain.Identity, error) {
	if chatUserId == "" || code == "" {
		return nil, WrapError(ErrMalformedInput, fmt.Errorf("user_id and code are required"))
	}

	account, err := s.accounts.FindByChatUserId(ctx, chatUserId)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, WrapError(ErrAccountNotFound, err)
		}
		return nil, storageError(err)
	}

	token, err := s.codeHost.ExchangeCode(ctx, code)
	if err != nil {
		return nil, gatewayError(err)
	}

	user, err := s.codeHost.FetchAccountIdentity(ctx, token)
	if err != nil {
		return nil, gatewayError(err)
	}

	if _, err := s.accounts.SetCodeHostToken(ctx, &dto.SetCodeHostTokenDTO{AccountId: account.Id, Token: token}); err != nil {
		return nil, storageError(err)
	}

	identity, err := s.identities.Link(ctx, account.Id, &dto.IdentityDTO{
		ExternalId: user.Id,
		Login:      user.Login,
		AvatarUrl:  user.AvatarUrl,
	})
	if err != nil {
		return nil, storageError(err)
	}

	s.log.Info("github identity connected",
		zap.String("chat_user_id", chatUserId),
		zap.String("login", identity.Login),
	)
	return identity, nil
}

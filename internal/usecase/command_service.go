package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"go.uber.org/zap"
)

const (
	usageText        = "Specify pull request For example: /code_review_bot http://github.com/facebook/react/pulls/123"
	onboardingFormat = "To submit a pull request you must first sign in and connect your account to github here %s."
	allReviewedText  = "All PRs Reviewed! :partyparrot:"
)

// slack оборачивает ссылки в <url> или <url|label>
var slackLink = regexp.MustCompile(`<([^>|]+)(?:\|[^>]*)?>`)

type CommandService struct {
	accounts AccountRepository
	prs      PrRepository
	codeHost CodeHostGateway
	chat     ChatGateway
	icons    IconLookup
	appUrl   string
	log      *zap.Logger
}

func NewCommandService(
	accounts AccountRepository,
	prs PrRepository,
	codeHost CodeHostGateway,
	chat ChatGateway,
	icons IconLookup,
	appUrl string,
	log *zap.Logger,
) *CommandService {
	return &CommandService{
		accounts: accounts,
		prs:      prs,
		codeHost: codeHost,
		chat:     chat,
		icons:    icons,
		appUrl:   appUrl,
		log:      log,
	}
}

// Review публикует pull request из команды в канал команды.
// Возвращает тело ответа или nil, если показывать нечего
func (s *CommandService) Review(ctx context.Context, cmd *domain.SlashCommand) ([]byte, error) {
	s.log.Info("review command accepted",
		zap.String("user_id", cmd.UserId),
		zap.String("channel", cmd.ChannelId),
	)

	account, err := s.accounts.FindByChatUserId(ctx, cmd.UserId)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, storageError(err)
	}
	if !account.HasCodeHostToken() {
		return s.ack(fmt.Sprintf(onboardingFormat, s.appUrl))
	}

	text := strings.ToLower(strings.TrimSpace(cmd.Text))
	if text == "" {
		return s.ack(usageText)
	}

	ref, err := domain.ParsePrRef(unwrapLink(text))
	if err != nil {
		return nil, WrapError(ErrMalformedInput, err)
	}

	token := *account.CodeHostAccessToken

	pr, err := s.codeHost.FetchPr(ctx, ref, token)
	if err != nil {
		return nil, gatewayError(err)
	}

	var icons []string
	files, err := s.codeHost.FetchChangedFiles(ctx, pr, token)
	if err != nil {
		s.log.Warn("changed files unavailable", zap.String("pr_id", pr.ExternalId()), zap.Error(err))
	} else {
		icons = s.icons.Icons(files)
	}

	if _, err := s.chat.PostMessage(ctx, pr, icons, cmd.ChannelId, nil); err != nil {
		return nil, gatewayError(err)
	}

	s.log.Info("pull request posted on demand",
		zap.String("pr_id", pr.ExternalId()),
		zap.String("channel", cmd.ChannelId),
	)
	return nil, nil
}

// Reviews публикует в канал команды текст каждого открытого pull request
func (s *CommandService) Reviews(ctx context.Context, cmd *domain.SlashCommand) error {
	prs, err := s.prs.ListByState(ctx, domain.PrStateOpen)
	if err != nil {
		return storageError(err)
	}

	text := allReviewedText
	if len(prs) > 0 {
		lines := make([]string, 0, len(prs))
		for _, pr := range prs {
			lines = append(lines, pr.DisplayText)
		}
		text = strings.Join(lines, "\n")
	}

	if _, err := s.chat.PostText(ctx, text, cmd.ChannelId); err != nil {
		return gatewayError(err)
	}

	s.log.Info("open pull requests listed",
		zap.String("channel", cmd.ChannelId),
		zap.Int("count", len(prs)),
	)
	return nil
}

func (s *CommandService) ack(text string) ([]byte, error) {
	body, err := s.chat.EphemeralAck(text)
	if err != nil {
		return nil, gatewayError(err)
	}
	return body, nil
}

func unwrapLink(text string) string {
	if m := slackLink.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return text
}

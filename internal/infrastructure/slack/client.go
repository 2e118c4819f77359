package slack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/niklvrr/codereviewbot/internal/domain"
	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const alreadyReacted = "already_reacted"

type Config struct {
	BotToken     string
	ClientId     string
	ClientSecret string
	ApiUrl       string
	Timeout      time.Duration
}

type Client struct {
	bot          *slack.Client
	opts         []slack.Option
	httpClient   *http.Client
	clientId     string
	clientSecret string
	log          *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	opts := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if cfg.ApiUrl != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.ApiUrl))
	}

	return &Client{
		bot:          slack.New(cfg.BotToken, opts...),
		opts:         opts,
		httpClient:   httpClient,
		clientId:     cfg.ClientId,
		clientSecret: cfg.ClientSecret,
		log:          log,
	}
}

// as возвращает клиента с токеном аккаунта или бота
func (c *Client) as(account *domain.Account) *slack.Client {
	if account != nil && account.ChatAccessToken != "" {
		return slack.New(account.ChatAccessToken, c.opts...)
	}
	return c.bot
}

func (c *Client) PostMessage(ctx context.Context, pr *domain.PrDetails, icons []string, channel string, account *domain.Account) (*domain.MessageRef, error) {
	ch, ts, err := c.as(account).PostMessageContext(ctx, channel,
		slack.MsgOptionText(pr.DisplayText(), false),
		slack.MsgOptionBlocks(messageBlocks(pr, icons)...),
	)
	if err != nil {
		c.log.Error("post message failed",
			zap.String("pr_id", pr.ExternalId()),
			zap.String("channel", channel),
			zap.Error(err),
		)
		return nil, mapError(err)
	}

	c.log.Info("message posted",
		zap.String("pr_id", pr.ExternalId()),
		zap.String("channel", ch),
		zap.String("ts", ts),
	)
	return &domain.MessageRef{Channel: ch, Ts: ts}, nil
}

func (c *Client) UpdateMessage(ctx context.Context, pr *domain.PrDetails, icons []string, ref domain.MessageRef, account *domain.Account) (*domain.MessageRef, error) {
	ch, ts, _, err := c.as(account).UpdateMessageContext(ctx, ref.Channel, ref.Ts,
		slack.MsgOptionText(pr.DisplayText(), false),
		slack.MsgOptionBlocks(messageBlocks(pr, icons)...),
	)
	if err != nil {
		c.log.Error("update message failed",
			zap.String("pr_id", pr.ExternalId()),
			zap.String("channel", ref.Channel),
			zap.String("ts", ref.Ts),
			zap.Error(err),
		)
		return nil, mapError(err)
	}

	return &domain.MessageRef{Channel: ch, Ts: ts}, nil
}

func (c *Client) AddReaction(ctx context.Context, reaction domain.Reaction, ref domain.MessageRef, account *domain.Account) error {
	err := c.as(account).AddReactionContext(ctx, string(reaction), slack.NewRefToMessage(ref.Channel, ref.Ts))
	if err != nil {
		var slackErr slack.SlackErrorResponse
		if errors.As(err, &slackErr) && slackErr.Err == alreadyReacted {
			return nil
		}
		c.log.Error("add reaction failed",
			zap.String("reaction", string(reaction)),
			zap.String("channel", ref.Channel),
			zap.Error(err),
		)
		return mapError(err)
	}
	return nil
}

// PostText отправляет простое сообщение от имени бота
func (c *Client) PostText(ctx context.Context, text, channel string) (*domain.MessageRef, error) {
	ch, ts, err := c.bot.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	if err != nil {
		c.log.Error("post text failed", zap.String("channel", channel), zap.Error(err))
		return nil, mapError(err)
	}
	return &domain.MessageRef{Channel: ch, Ts: ts}, nil
}

// EphemeralAck формирует ответ на slash-команду, видимый только автору команды
func (c *Client) EphemeralAck(text string) ([]byte, error) {
	body, err := json.Marshal(slack.Msg{
		Text:         text,
		ResponseType: slack.ResponseTypeEphemeral,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal ephemeral response: %w", err)
	}
	return body, nil
}

func (c *Client) ExchangeOAuthCode(ctx context.Context, code, redirectUri string) (*domain.ChatOAuth, error) {
	resp, err := slack.GetOAuthV2ResponseContext(ctx, c.httpClient, c.clientId, c.clientSecret, code, redirectUri)
	if err != nil {
		c.log.Warn("oauth exchange failed", zap.Error(err))
		return nil, mapError(err)
	}

	return &domain.ChatOAuth{
		UserId:      resp.AuthedUser.ID,
		AccessToken: resp.AuthedUser.AccessToken,
		TeamId:      resp.Team.ID,
	}, nil
}

func mapError(err error) error {
	var slackErr slack.SlackErrorResponse
	if errors.As(err, &slackErr) {
		return fmt.Errorf("%w: %s", domain.ErrChatSoftFailure, slackErr.Err)
	}

	var rateErr *slack.RateLimitedError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

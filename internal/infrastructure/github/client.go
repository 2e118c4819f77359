package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v42/github"
	"github.com/niklvrr/codereviewbot/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	oauthgithub "golang.org/x/oauth2/github"
)

const (
	// EventEndpoint - сегмент пути, на который указывают хуки сервиса
	EventEndpoint = "github_event"

	filesPerPage = 100
	maxFilePages = 30
)

var hookEvents = []string{"pull_request", "pull_request_review"}

type Config struct {
	ApiUrl        string
	ClientId      string
	ClientSecret  string
	WebhookSecret string
	Timeout       time.Duration
}

type Client struct {
	httpClient *http.Client
	baseUrl    *url.URL
	oauth      *oauth2.Config
	secret     string
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) (*Client, error) {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientId,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauthgithub.Endpoint,
			Scopes:       []string{"repo", "admin:repo_hook"},
		},
		secret: cfg.WebhookSecret,
		log:    log,
	}

	if cfg.ApiUrl != "" {
		u, err := url.Parse(strings.TrimSuffix(cfg.ApiUrl, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse github api url: %w", err)
		}
		c.baseUrl = u
	}

	return c, nil
}

func (c *Client) client(ctx context.Context, token string) *gh.Client {
	hc := c.httpClient
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
		hc = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	}

	client := gh.NewClient(hc)
	if c.baseUrl != nil {
		client.BaseURL = c.baseUrl
	}
	return client
}

func (c *Client) FetchPr(ctx context.Context, ref domain.PrRef, token string) (*domain.PrDetails, error) {
	pr, resp, err := c.client(ctx, token).PullRequests.Get(ctx, ref.Owner, ref.Name, ref.Number)
	if err != nil {
		c.log.Warn("fetch pull request failed",
			zap.String("pr_id", ref.ExternalId()),
			zap.Error(err),
		)
		return nil, mapError(resp, err)
	}

	details := ToPrDetails(pr)
	return &details, nil
}

func (c *Client) FetchChangedFiles(ctx context.Context, pr *domain.PrDetails, token string) ([]domain.FileChange, error) {
	client := c.client(ctx, token)
	opts := &gh.ListOptions{PerPage: filesPerPage}

	files := make([]domain.FileChange, 0)
	for page := 0; page < maxFilePages; page++ {
		batch, resp, err := client.PullRequests.ListFiles(ctx, pr.Owner, pr.RepoName, pr.Number, opts)
		if err != nil {
			return nil, mapError(resp, err)
		}

		for _, f := range batch {
			name := f.GetFilename()
			files = append(files, domain.FileChange{
				Filename:  name,
				Extension: strings.TrimPrefix(pathExt(name), "."),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return files, nil
}

// RegisterWebhook переиспользует хук, уже указывающий на сервис,
// и создает новый только если такого нет
func (c *Client) RegisterWebhook(ctx context.Context, repo domain.RepoRef, callbackUrl, token string) (*domain.WebhookHandle, error) {
	client := c.client(ctx, token)

	hooks, resp, err := client.Repositories.ListHooks(ctx, repo.Owner, repo.Name, &gh.ListOptions{PerPage: 100})
	if err != nil {
		return nil, mapError(resp, err)
	}

	for _, hook := range hooks {
		hookUrl, _ := hook.Config["url"].(string)
		if strings.Contains(hookUrl, EventEndpoint) {
			c.log.Info("reusing existing webhook",
				zap.String("owner", repo.Owner),
				zap.String("name", repo.Name),
				zap.Int64("hook_id", hook.GetID()),
			)
			return &domain.WebhookHandle{Id: hook.GetID(), Url: hookUrl}, nil
		}
	}

	config := map[string]interface{}{
		"url":          callbackUrl,
		"content_type": "json",
		"insecure_ssl": "0",
	}
	if c.secret != "" {
		config["secret"] = c.secret
	}

	hook, resp, err := client.Repositories.CreateHook(ctx, repo.Owner, repo.Name, &gh.Hook{
		Events: hookEvents,
		Active: gh.Bool(true),
		Config: config,
	})
	if err != nil {
		c.log.Error("create webhook failed",
			zap.String("owner", repo.Owner),
			zap.String("name", repo.Name),
			zap.Error(err),
		)
		return nil, mapError(resp, err)
	}

	c.log.Info("webhook created",
		zap.String("owner", repo.Owner),
		zap.String("name", repo.Name),
		zap.Int64("hook_id", hook.GetID()),
	)
	return &domain.WebhookHandle{Id: hook.GetID(), Url: callbackUrl}, nil
}

func (c *Client) DeregisterWebhook(ctx context.Context, hook *domain.Webhook, token string) error {
	id, err := parseHookId(hook.HookId)
	if err != nil {
		return err
	}

	resp, err := c.client(ctx, token).Repositories.DeleteHook(ctx, hook.Owner, hook.Name, id)
	if err != nil {
		return mapError(resp, err)
	}
	return nil
}

func (c *Client) FetchAccountIdentity(ctx context.Context, token string) (*domain.User, error) {
	user, resp, err := c.client(ctx, token).Users.Get(ctx, "")
	if err != nil {
		return nil, mapError(resp, err)
	}

	u := ToUser(user)
	return &u, nil
}

// ExchangeCode обменивает OAuth код на токен доступа
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: oauth exchange: %v", domain.ErrUpstream, err)
	}
	return token.AccessToken, nil
}

func mapError(resp *gh.Response, err error) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
	}

	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamNotFound, err)
	}

	return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
}

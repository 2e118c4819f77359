package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/niklvrr/codereviewbot/internal/config"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/db"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/github"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/lang"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/repository"
	"github.com/niklvrr/codereviewbot/internal/infrastructure/slack"
	"github.com/niklvrr/codereviewbot/internal/transport"
	"github.com/niklvrr/codereviewbot/internal/transport/handler"
	"github.com/niklvrr/codereviewbot/internal/usecase"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg    *config.Config
	log    *zap.Logger
	pool   *pgxpool.Pool
	server *transport.Server
}

// New подключается к базе, применяет миграции и собирает все слои
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	pool, err := db.NewDatabase(ctx, db.Config{
		Url:            cfg.Database.URL,
		MigrationsPath: cfg.Database.MigrationsPath,
		MaxConns:       cfg.Database.MaxConns,
	}, log)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(cfg, pool, log)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &App{
		cfg:    cfg,
		log:    log,
		pool:   pool,
		server: transport.NewServer(cfg.Addr(), router, cfg.App.RequestTimeout, log),
	}, nil
}

// NewRouter собирает репозитории, клиенты, сервисы и хендлеры поверх pool
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, log *zap.Logger) (http.Handler, error) {
	icons, err := lang.Load(cfg.Languages.Path)
	if err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}

	codeHost, err := github.NewClient(github.Config{
		ApiUrl:        cfg.Github.ApiUrl,
		ClientId:      cfg.Github.ClientId,
		ClientSecret:  cfg.Github.ClientSecret,
		WebhookSecret: cfg.Github.WebhookSecret,
		Timeout:       cfg.Github.Timeout,
	}, log.Named("github"))
	if err != nil {
		return nil, err
	}

	chat := slack.NewClient(slack.Config{
		BotToken:     cfg.Slack.BotToken,
		ClientId:     cfg.Slack.ClientId,
		ClientSecret: cfg.Slack.ClientSecret,
		ApiUrl:       cfg.Slack.ApiUrl,
		Timeout:      cfg.Slack.Timeout,
	}, log.Named("slack"))

	identities := repository.NewIdentityRepository(pool, log)
	prs := repository.NewPrRepository(pool, log)
	reviews := repository.NewReviewRepository(pool, log)
	accounts := repository.NewAccountRepository(pool, log)
	webhooks := repository.NewWebhookRepository(pool, log)

	syncService := usecase.NewSyncService(identities, prs, reviews, codeHost, chat, icons, usecase.SyncConfig{
		Channel:  cfg.Slack.Channel,
		BotToken: cfg.Github.AccessToken,
	}, log.Named("sync"))
	commandService := usecase.NewCommandService(accounts, prs, codeHost, chat, icons, cfg.App.Url, log.Named("command"))
	repoService := usecase.NewRepoService(accounts, webhooks, codeHost, cfg.App.Url, log.Named("repo"))
	authService := usecase.NewAuthService(accounts, identities, codeHost, chat, cfg.Slack.RedirectUrl, log.Named("auth"))

	return transport.NewRouter(transport.Handlers{
		Github: handler.NewGithubHandler(syncService, cfg.Github.WebhookSecret, log),
		Slack:  handler.NewSlackHandler(commandService, log),
		Repo:   handler.NewRepoHandler(repoService, log),
		Auth:   handler.NewAuthHandler(authService, log),
		Health: handler.NewHealthHandler(pool, log),
	}, cfg.App.RequestTimeout, log), nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	defer a.pool.Close()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.server.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.App.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	a.log.Info("server stopped")
	return nil
}

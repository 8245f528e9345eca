package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/ebay-lister/internal/config"
	"github.com/donaldgifford/ebay-lister/internal/ebay"
	"github.com/donaldgifford/ebay-lister/internal/notify"
	"github.com/donaldgifford/ebay-lister/internal/store"
	"github.com/donaldgifford/ebay-lister/pkg/logger"
)

// app bundles the wired components one command invocation uses. Everything
// is constructed from the loaded config; no component reads ambient state.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	tokens *ebay.TokenManager
	sell   *ebay.SellClient
	orch   *ebay.Orchestrator

	closers []func()
}

func (a *app) close() {
	for _, fn := range a.closers {
		fn()
	}
}

// buildApp loads the config and wires the component graph. When interactive
// is false no consent provider is attached, so a command that reaches the
// API with no usable credential fails with ErrAuthRequired instead of
// prompting. code pre-supplies the authorization code for headless logins.
func buildApp(ctx context.Context, interactive bool, code string) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	a := &app{cfg: cfg, log: log}

	var consent ebay.ConsentProvider
	if interactive {
		consent = buildConsent(cfg, code, log)
	}

	tokenStore, err := buildTokenStore(ctx, cfg, a)
	if err != nil {
		return nil, err
	}

	tokenOpts := []ebay.TokenManagerOption{
		ebay.WithAuthURL(cfg.Endpoints.AuthURL),
		ebay.WithTokenURL(cfg.Endpoints.TokenURL),
		ebay.WithAuthLogger(log),
	}
	if consent != nil {
		tokenOpts = append(tokenOpts, ebay.WithConsent(consent))
	}

	a.tokens = ebay.NewTokenManager(
		cfg.Credentials.AppID,
		cfg.Credentials.CertID,
		cfg.Credentials.RedirectURI,
		cfg.Endpoints.Scopes,
		tokenStore,
		tokenOpts...,
	)

	limiter := ebay.NewRateLimiter(
		cfg.RateLimit.PerSecond,
		cfg.RateLimit.Burst,
		cfg.RateLimit.DailyLimit,
	)

	gw := ebay.NewGateway(a.tokens, cfg.Marketplace.ID,
		ebay.WithGatewayRateLimiter(limiter),
		ebay.WithGatewayLogger(log),
	)

	a.sell = ebay.NewSellClient(gw, cfg.Endpoints.APIBaseURL, cfg.Marketplace.ID,
		ebay.WithSellLogger(log),
	)

	a.orch = ebay.NewOrchestrator(a.sell,
		ebay.WithNotifier(buildNotifier(cfg, log)),
		ebay.WithOrchestratorLogger(log),
	)

	startMetricsListener(log)

	return a, nil
}

func buildTokenStore(ctx context.Context, cfg *config.Config, a *app) (store.TokenStore, error) {
	switch cfg.TokenStore.Backend {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.TokenStore.DSN)
		if err != nil {
			return nil, fmt.Errorf("connecting token store: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	default:
		return store.NewFileStore(cfg.TokenStore.Path), nil
	}
}

func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}

// buildConsent picks the interactive consent path: a pre-supplied code wins,
// then the local callback listener when configured, else the terminal prompt.
func buildConsent(cfg *config.Config, code string, log *slog.Logger) ebay.ConsentProvider {
	if code != "" {
		return ebay.StaticConsent{Code: code}
	}
	if cfg != nil && cfg.Consent.CallbackAddr != "" {
		return ebay.NewCallbackConsent(cfg.Consent.CallbackAddr,
			ebay.WithCallbackTimeout(cfg.Consent.Timeout),
			ebay.WithCallbackOutput(os.Stdout),
			ebay.WithCallbackLogger(log),
		)
	}
	return ebay.PromptConsent{In: os.Stdin, Out: os.Stdout}
}

// startMetricsListener exposes /metrics for the lifetime of the process
// when --metrics-addr is set. Useful when the lister runs under a
// supervisor that scrapes it.
func startMetricsListener(log *slog.Logger) {
	if metricsAddr == "" {
		return
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	go func() {
		if err := e.Start(metricsAddr); err != nil && err != http.ErrServerClosed {
			log.Warn("metrics listener stopped", "error", err)
		}
	}()
	log.Info("serving metrics", "addr", metricsAddr)
}

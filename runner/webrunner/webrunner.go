// Package webrunner wires the storage backend, external clients, and
// HTTP server together and runs them.
package webrunner

import (
	"context"
	"os"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/textforge/humanizer/gemini"
	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/runner"
	"github.com/textforge/humanizer/subscription"
	"github.com/textforge/humanizer/web"
	"github.com/textforge/humanizer/web/store"
)

type webrunner struct {
	srv    *web.Server
	logger *zap.Logger
	cfg    *runner.Config
}

func New(cfg *runner.Config) (runner.Runner, error) {
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, AI endpoints will fail")
	}

	if !cfg.Ephemeral {
		if err := os.MkdirAll(cfg.DataFolder, os.ModePerm); err != nil {
			return nil, err
		}
	}

	selector := store.NewSelector(store.Config{
		Backend:    cfg.StoreBackend,
		Ephemeral:  cfg.Ephemeral,
		DataFolder: cfg.DataFolder,
	}, logger)

	printfLogger := printf{sugar: logger.Sugar()}

	svc := web.NewService(selector.Repo(), printfLogger)
	subs := subscription.NewService(svc, printfLogger)

	srv, err := web.New(web.Config{
		Addr:                cfg.Addr,
		Service:             svc,
		Subscriptions:       subs,
		AI:                  gemini.NewClient(cfg.GeminiAPIKey),
		Payments:            lemonsqueezy.NewClient(cfg.LemonSqueezyAPIKey),
		Telemetry:           runner.Telemetry(),
		Logger:              printfLogger,
		LemonSqueezyAPIKey:  cfg.LemonSqueezyAPIKey,
		LemonSqueezyStoreID: cfg.LemonSqueezyStoreID,
		WebhookSecret:       cfg.WebhookSecret,
	})
	if err != nil {
		return nil, err
	}

	return &webrunner{
		srv:    srv,
		logger: logger,
		cfg:    cfg,
	}, nil
}

func (w *webrunner) Run(ctx context.Context) error {
	egroup, ctx := errgroup.WithContext(ctx)

	egroup.Go(func() error {
		return w.srv.Start(ctx)
	})

	return egroup.Wait()
}

func (w *webrunner) Close(context.Context) error {
	_ = w.logger.Sync()

	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

// printf adapts zap to the small Printf logger the web package expects.
type printf struct {
	sugar *zap.SugaredLogger
}

func (l printf) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

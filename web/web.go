package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/textforge/humanizer/gemini"
	"github.com/textforge/humanizer/lemonsqueezy"
	"github.com/textforge/humanizer/subscription"
	"github.com/textforge/humanizer/tlmt"
	"github.com/textforge/humanizer/web/auth"
	"github.com/textforge/humanizer/web/middleware"
)

// Config wires the server's collaborators and credentials.
type Config struct {
	Addr string

	Service       *Service
	Subscriptions subscription.ServiceInterface
	AI            gemini.Client
	Payments      lemonsqueezy.Client
	Telemetry     tlmt.Telemetry
	Logger        Logger

	LemonSqueezyAPIKey  string
	LemonSqueezyStoreID string
	WebhookSecret       string
}

// Server is the HTTP front of the service.
type Server struct {
	srv    *http.Server
	logger Logger
}

func New(cfg Config) (*Server, error) {
	if cfg.Service == nil {
		return nil, errors.New("user service is required")
	}

	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	apiHandler := NewAPIHandler(cfg.AI, cfg.Telemetry, cfg.Logger)
	apiHandler.RegisterRoutes(api)

	checkoutHandler := NewCheckoutHandler(cfg.Payments, cfg.LemonSqueezyAPIKey, cfg.LemonSqueezyStoreID, cfg.Logger)
	checkoutHandler.RegisterRoutes(api)

	webhookHandler := NewWebhookHandler(cfg.Subscriptions, cfg.WebhookSecret, cfg.Telemetry, cfg.Logger)
	webhookHandler.RegisterRoutes(api)

	authMiddleware := auth.NewMiddleware(cfg.Service)

	// LoadUser must wrap RequestLogger: the user record travels on the
	// request context, so the logger only sees it from inside LoadUser.
	handler := middleware.Chain(router,
		authMiddleware.LoadUser,
		middleware.RequestLogger(cfg.Logger),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		srv:    srv,
		logger: cfg.Logger,
	}, nil
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Printf("ERROR server shutdown: %v", err)
		}
	}()

	s.logger.Printf("listening on %s", s.srv.Addr)

	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

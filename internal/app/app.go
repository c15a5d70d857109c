package app

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/puppy-bowl/external/puppybowl"
	"github.com/riskibarqy/puppy-bowl/internal/config"
	"github.com/riskibarqy/puppy-bowl/internal/controller"
	"github.com/riskibarqy/puppy-bowl/internal/interfaces/web"
	"github.com/riskibarqy/puppy-bowl/internal/metrics"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
	"github.com/riskibarqy/puppy-bowl/internal/usecase"
	"github.com/riskibarqy/puppy-bowl/internal/view"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	recorder := metrics.NewRecorder()

	rosterClient := puppybowl.NewClient(puppybowl.ClientConfig{
		BaseURL:        cfg.RosterBaseURL,
		Cohort:         cfg.RosterCohort,
		Timeout:        cfg.RosterTimeout,
		MaxRetries:     cfg.RosterMaxRetries,
		RetryBackoff:   cfg.RosterRetryBackoff,
		Logger:         logger,
		Metrics:        recorder,
		CircuitBreaker: cfg.RosterCircuitBreaker(),
	})

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("build renderer: %w", err)
	}

	rosterSvc := usecase.NewRosterService(rosterClient, logger)
	ctrl := controller.New(rosterSvc, renderer, logger, recorder)
	handler := web.NewHandler(ctrl, renderer, logger)
	router := web.NewRouter(handler, recorder, logger, web.RouterConfig{
		ServiceName:        cfg.ServiceName,
		MetricsEnabled:     cfg.MetricsEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	return &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}, nil
}

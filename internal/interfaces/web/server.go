package web

import (
	"net/http"

	"github.com/riskibarqy/puppy-bowl/internal/metrics"
	"github.com/riskibarqy/puppy-bowl/internal/platform/logging"
)

type RouterConfig struct {
	ServiceName        string
	MetricsEnabled     bool
	CORSAllowedOrigins []string
}

func NewRouter(handler *Handler, recorder *metrics.Recorder, logger *logging.Logger, cfg RouterConfig) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "puppy-bowl"
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler, recorder, cfg.MetricsEnabled)
	registerRosterRoutes(mux, handler, recorder)

	return RequestTracing(cfg.ServiceName,
		RequestID(
			RequestLogging(logger,
				CORS(cfg.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

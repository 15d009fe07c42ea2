package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/ppfg/internal/log"
	"github.com/chrissnell/ppfg/internal/ppfg"
	"github.com/chrissnell/ppfg/pkg/config"
	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	configProvider config.ConfigProvider
	serverConfig   config.ServerData
	Server         http.Server
	Defaults       ppfg.Params
	Presets        []config.PresetData
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, configProvider config.ConfigProvider, logger *zap.SugaredLogger) (*Controller, error) {
	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		configProvider: configProvider,
		logger:         logger,
	}

	// Load configuration
	cfgData, err := configProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %v", err)
	}

	ctrl.Defaults = cfgData.Engine
	ctrl.Presets = cfgData.Presets
	ctrl.serverConfig = cfgData.Server
	ctrl.serverConfig.ApplyDefaults()

	// Create handlers
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.HTTPPort)
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadTimeout = ctrl.serverConfig.ReadTimeout
	ctrl.Server.WriteTimeout = ctrl.serverConfig.WriteTimeout

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.serverConfig.TLSCertPath != "" && c.serverConfig.TLSKeyPath != "" {
			if err := c.Server.ListenAndServeTLS(c.serverConfig.TLSCertPath, c.serverConfig.TLSKeyPath); err != http.ErrServerClosed {
				log.Errorw("REST server error", "addr", c.Server.Addr, "tls", true, "error", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorw("REST server error", "addr", c.Server.Addr, "tls", false, "error", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// Handler returns the full middleware chain wrapped around the router
func (c *Controller) Handler() http.Handler {
	var h http.Handler = c.setupRouter()
	h = c.accessLogMiddleware(h)
	h = handlers.CORS(
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(c.logger.Desugar())),
		handlers.PrintRecoveryStack(true),
	)(h)
	return h
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", c.handlers.GetHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(c.bodyLimitMiddleware)
	api.HandleFunc("/params", c.handlers.GetParams).Methods(http.MethodGet)
	api.HandleFunc("/workflow", c.handlers.RunWorkflow).Methods(http.MethodPost)
	api.HandleFunc("/probabilistic", c.handlers.RunProbabilistic).Methods(http.MethodPost)
	api.HandleFunc("/sensitivity", c.handlers.RunSensitivity).Methods(http.MethodPost)
	api.HandleFunc("/envelope", c.handlers.RunEnvelope).Methods(http.MethodPost)
	api.HandleFunc("/trend/fit", c.handlers.FitTrend).Methods(http.MethodPost)

	return router
}

// bodyLimitMiddleware caps request bodies at the configured size
func (c *Controller) bodyLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, c.serverConfig.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}

// accessLogMiddleware logs one line per request with status and latency
func (c *Controller) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		c.logger.Infow("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration_ms", m.Duration.Milliseconds(),
			"size", m.Written,
			"remote_addr", r.RemoteAddr,
		)
	})
}

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 5 * time.Second

type RouteFactory func(router *gin.Engine)

type RouterOption struct {
	RecoveryDisabled bool
	LoggerForced     bool
	OriginsAllowed   []string
}

// MustServe serves the API until ctx is done, and exits the process on any other failure.
func MustServe(ctx context.Context, endpoint string, factory RouteFactory, option ...RouterOption) {
	if err := Serve(ctx, endpoint, factory, option...); err != nil {
		logrus.WithError(err).Fatal("Failed to serve API")
	}
}

// Serve serves the API until ctx is done, then waits for in-flight requests to complete.
func Serve(ctx context.Context, endpoint string, factory RouteFactory, option ...RouterOption) error {
	server := http.Server{
		Addr:    endpoint,
		Handler: NewRouter(factory, option...),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logrus.WithField("endpoint", endpoint).Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.WithMessage(err, "failed to shutdown API server")
	}

	if err := <-errCh; err != http.ErrServerClosed {
		return err
	}

	return nil
}

// NewRouter creates a gin engine with recovery, CORS and optional request logging, and installs
// the routes of factory.
func NewRouter(factory RouteFactory, option ...RouterOption) *gin.Engine {
	var opt RouterOption
	if len(option) > 0 {
		opt = option[0]
	}

	router := gin.New()

	if !opt.RecoveryDisabled {
		router.Use(gin.Recovery())
	}

	router.Use(newCorsMiddleware(opt.OriginsAllowed))

	if opt.LoggerForced || logrus.IsLevelEnabled(logrus.DebugLevel) {
		router.Use(gin.LoggerWithWriter(logrus.StandardLogger().Out))
	}

	factory(router)

	return router
}

func newCorsMiddleware(origins []string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowMethods = []string{http.MethodPost, http.MethodOptions}
	conf.AllowHeaders = append(conf.AllowHeaders, "*")

	if len(origins) == 0 {
		conf.AllowAllOrigins = true
	} else {
		conf.AllowOrigins = origins
	}

	return cors.New(conf)
}

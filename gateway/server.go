package gateway

import (
	"context"

	"github.com/0glabs/0g-snapshot/common/api"
	"github.com/0glabs/0g-snapshot/common/detect"
	"github.com/0glabs/0g-snapshot/common/fsys"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config configures the local gateway.
type Config struct {
	Endpoint       string   // Address to listen on
	Repo           string   // Base directory of relative paths in requests
	Routines       int      // Number of files read or written concurrently within a directory
	CacheSize      int      // Number of text classification results to cache
	OriginsAllowed []string // Origins allowed by CORS, all if empty
}

// MustServeLocal serves the snapshot API on the local file system until ctx is done.
func MustServeLocal(ctx context.Context, config Config) {
	factory, err := NewRouteFactory(config, fsys.NewOsFs())
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize gateway")
	}

	logrus.WithFields(logrus.Fields{
		"endpoint": config.Endpoint,
		"repo":     config.Repo,
	}).Info("Serving snapshot gateway")

	api.MustServe(ctx, config.Endpoint, factory, api.RouterOption{
		OriginsAllowed: config.OriginsAllowed,
	})
}

// NewRouteFactory creates the routes of the snapshot API on top of the given file system.
func NewRouteFactory(config Config, filesystem fsys.Provider) (api.RouteFactory, error) {
	if config.CacheSize <= 0 {
		config.CacheSize = 4096
	}

	isText, err := detect.Cached(detect.IsText, config.CacheSize)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create text classifier")
	}

	ctrl := &controller{
		config: config,
		fs:     filesystem,
		isText: isText,
		logger: logrus.StandardLogger(),
	}

	return ctrl.routes, nil
}

func (ctrl *controller) routes(router *gin.Engine) {
	snapshotApi := router.Group("/snapshot")
	snapshotApi.POST("/capture", api.Wrap(ctrl.capture))
	snapshotApi.POST("/restore", api.Wrap(ctrl.restore))
	snapshotApi.POST("/list", api.Wrap(ctrl.list))
}

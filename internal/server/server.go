package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/corvid-labs/magpie/internal/ingest"
	"github.com/corvid-labs/magpie/internal/queue"
	mid "github.com/corvid-labs/magpie/internal/server/middleware"
	"github.com/corvid-labs/magpie/internal/util"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/reason"
	"github.com/corvid-labs/magpie/pkg/store"
	filestore "github.com/corvid-labs/magpie/pkg/store/file"
	s3store "github.com/corvid-labs/magpie/pkg/store/s3"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// NewSnapshotStore builds the configured snapshot backend. The file store
// is the default; S3 is selected with SNAPSHOT_BACKEND=s3. The worker
// uses the same selection, so it lives here rather than in main.
func NewSnapshotStore(ctx context.Context) store.Store {
	switch util.GetEnvString("SNAPSHOT_BACKEND", "file") {
	case "s3":
		s, err := s3store.NewS3Store(ctx, s3store.S3StoreParams{
			Region:    util.GetEnv("S3_REGION"),
			Endpoint:  util.GetEnv("S3_ENDPOINT"),
			Bucket:    util.GetEnv("S3_BUCKET"),
			AccessKey: util.GetEnv("S3_ACCESS_KEY"),
			SecretKey: util.GetEnv("S3_SECRET_KEY"),
		})
		if err != nil {
			logger.Fatal("Failed to create S3 snapshot store", "err", err)
		}
		return s
	default:
		s, err := filestore.NewFileStore(util.GetEnvString("DATA_DIR", "data"))
		if err != nil {
			logger.Fatal("Failed to create file snapshot store", "err", err)
		}
		return s
	}
}

// Init builds the stores, loads their snapshots, and runs the HTTP server
// until the process is signalled.
func Init() {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshots := NewSnapshotStore(ctx)

	g := graph.New(snapshots)
	if err := g.Load(ctx); err != nil {
		logger.Error("Failed to load graph snapshot", "err", err)
	}
	docs := docindex.New(snapshots)
	if err := docs.Load(ctx); err != nil {
		logger.Error("Failed to load document snapshot", "err", err)
	}

	app := &mid.App{
		Graph:       g,
		Docs:        docs,
		Engine:      reason.New(g, docs),
		Ingest:      ingest.NewService(g, docs),
		APIKey:      util.GetEnv("API_KEY"),
		AsyncIngest: util.GetEnvBool("ASYNC_INGEST", false),
	}

	if app.AsyncIngest {
		conn := queue.Init()
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			logger.Fatal("Failed to open channel", "err", err)
		}
		if err := queue.SetupQueues(ch); err != nil {
			logger.Fatal("Failed to set up queues", "err", err)
		}
		app.Queue = ch
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(echomw.CORS())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.BodyLimit("32M"))
	e.Use(echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(
		rate.Limit(util.GetEnvInt("RATE_LIMIT", 50)),
	)))

	RegisterRoutes(e)

	go func() {
		port := util.GetEnvString("PORT", "8080")
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}

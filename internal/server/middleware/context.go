package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/corvid-labs/magpie/internal/ingest"
	"github.com/corvid-labs/magpie/pkg/docindex"
	"github.com/corvid-labs/magpie/pkg/graph"
	"github.com/corvid-labs/magpie/pkg/reason"
)

// App holds the process-wide dependencies handlers reach through the
// request context. Queue is nil when async ingestion is disabled.
type App struct {
	Graph       *graph.Graph
	Docs        *docindex.Index
	Engine      *reason.Engine
	Ingest      *ingest.Service
	Queue       *amqp091.Channel
	APIKey      string
	AsyncIngest bool
}

// AppContext wraps the echo context with the application dependencies.
type AppContext struct {
	echo.Context
	App *App
}

// AppContextMiddleware attaches the App to every request.
func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}

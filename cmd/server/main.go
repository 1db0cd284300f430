package main

import (
	"github.com/corvid-labs/magpie/internal/server"
	"github.com/corvid-labs/magpie/internal/util"
	"github.com/corvid-labs/magpie/pkg/logger"
	"github.com/corvid-labs/magpie/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}

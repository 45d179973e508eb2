package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"taskboard/internal/config"
	"taskboard/internal/logging"
	"taskboard/internal/taskapi"
	"taskboard/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to taskboard.toml")
	addr := flag.String("addr", "", "listen address (overrides listen_addr)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("config: %v", err)
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}

	logger, err := logging.New(logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: true,
		Prefix:          "taskboard-web",
	})
	if err != nil {
		fatal("logging: %v", err)
	}

	client, err := taskapi.New(cfg.APIURL,
		taskapi.WithTimeout(cfg.Timeout.Duration),
		taskapi.WithLogger(logger),
	)
	if err != nil {
		fatal("task service: %v", err)
	}

	gin.SetMode(web.ModeFor(cfg.LogLevel))
	server := web.New(client, web.Options{
		Locale:  cfg.Locale,
		WasmDir: cfg.WasmDir,
		Logger:  logger,
	})

	logger.Info("starting", "api_url", cfg.APIURL, "locale", cfg.Locale, "config", cfg.File)
	if err := server.Run(cfg.ListenAddr); err != nil {
		logger.Fatal("listen", "err", err)
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

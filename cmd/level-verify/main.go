package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"
	"mee6-level/internal/app"
	"mee6-level/internal/config"
)

func main() {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	unsugared, err := createLogger(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logger := unsugared.Sugar()
	defer func() {
		_ = logger.Sync()
	}()

	app.Run(cfg, logger)
}

func createLogger(cfg *config.Config) (log *zap.Logger, err error) {
	if cfg.Development {
		log, err = zap.NewDevelopment()
	} else {
		log, err = zap.NewProduction()
	}
	return
}

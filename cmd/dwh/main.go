package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/wakala/dwh/internal/config"
	"github.com/wakala/dwh/internal/logger"
)

func main() {
	config.LoadEnvironment()

	cfg := config.NewConfig()
	if err := cfg.LoadFromEnvironment(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(2)
	}
	if err := logger.Init(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(2)
	}
	defer logger.Close()

	if err := newRootCmd(cfg).Execute(); err != nil {
		var usage usageError
		if errors.As(err, &usage) {
			logger.Error("%v", err)
			logger.Close()
			os.Exit(2)
		}
		logger.Error("Run failed: %v", err)
		logger.Close()
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/txnlens/txnlens/cmd/categories"
	"github.com/txnlens/txnlens/cmd/enrich"
	"github.com/txnlens/txnlens/cmd/root"
	"github.com/txnlens/txnlens/cmd/serve"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Configure global log level directly - this affects ALL new loggers
	configureLogLevelDirectly()

	// 3. Now that logging is properly configured, initialize root command
	root.Init()

	// 4. Add all subcommands
	root.Cmd.AddCommand(enrich.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	// Try to find .env file in current directory
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		// Try to find .env in parent directory (project root)
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	// Load .env file silently without logging
	_ = godotenv.Load(envFile)
}

// configureLogLevelDirectly sets the global log level for all logrus
// instances before any logging happens
func configureLogLevelDirectly() {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		logLevelStr = "info"
	}

	logLevel, err := logrus.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil {
		logLevel = logrus.InfoLevel
	}

	logrus.SetLevel(logLevel)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

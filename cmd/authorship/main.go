package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/humanmade/authorship/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env")
	}
	logger.Init(os.Getenv("APP_ENV"))

	rootCmd := &cobra.Command{
		Use:   "authorship",
		Short: "Authorship maintenance commands",
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Data migration commands",
	}
	migrateCmd.AddCommand(newMigrateWPAuthorsCommand())

	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/practicas/core/cmd/api/commands"
)

// @title Practicas API
// @version 1.0
// @description Students, movies, books and adventurers, each stored in its own JSON file

// @license.name MIT

// @host localhost:3000
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Static token, or "Bearer" followed by a space and the token or JWT.

func main() {
	rootCmd := &cobra.Command{
		Use:   "practicas",
		Short: "Practicas API Server",
		Long:  `Practicas serves the students, movies, books and adventurers collections over a JSON REST API backed by flat files.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewStoreCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}

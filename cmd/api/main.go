package main

import (
	"os"

	"github.com/yigit/courseregistry/internal/pkg/logger"
	"github.com/yigit/courseregistry/internal/server"
)

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup functions already logged the details
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// blocks until SIGINT/SIGTERM
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

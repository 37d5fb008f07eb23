package main

import (
	"os"

	"github.com/koheitakada/machimeet/internal/pkg/logger"
	"github.com/koheitakada/machimeet/internal/server"
)

// @title MachiMeet API
// @version 1.0
// @description API for MachiMeet, the local event sharing map

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api
// @schemes http https

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}

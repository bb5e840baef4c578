package main

import (
	"os"

	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/campusleave/leavedesk/internal/server"
)

// @title LeaveDesk API
// @version 1.0
// @description Campus leave management: applications, parent/advisor/warden approvals, emergency meetings and admin analytics.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

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

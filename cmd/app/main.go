package main

import (
	"hostel/config"
	"hostel/di"
	"hostel/helper"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Hostel API
// @version 1.0
// @description Room catalog and room change requests for a hostel.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.
func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}

package main

import (
	"context"
	"flag"
	"os"
	"time"

	"hostel/config"
	"hostel/di"
	"hostel/internal/domains/user/model/dto"
	"hostel/shared/constant"
	"hostel/shared/logger"

	"github.com/rs/zerolog/log"
)

const bootstrapTimeout = 30 * time.Second

// Creates an administrator account. Credentials come from flags, falling back to
// ADMIN_EMAIL and ADMIN_PASSWORD.
func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "administrator email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "administrator password, at least 8 characters")
	name := flag.String("name", os.Getenv("ADMIN_NAME"), "display name")
	level := flag.String("level", constant.RoleSuperAdmin, "superadmin or admin")
	flag.Parse()

	logger.InitLogger()

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	req := dto.CreateUserRequest{
		Email:    *email,
		Password: *password,
		Level:    *level,
	}

	if *name != "" {
		req.FullName = name
	}

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	defer cancel()

	user, err := di.InitializeAuth().CreateAdmin(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Str("email", *email).Msg("Failed to create administrator")
	}

	log.Info().Str("id", user.ID).Str("email", user.Email).Str("level", user.Level).Msg("Administrator created")
}

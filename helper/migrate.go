package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"hostel/config"
	"hostel/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

// connectionString targets the write database. DB_POSTGRES_URL wins over the host settings.
func connectionString(config *config.Config) (string, error) {
	pg := config.DB.Postgres

	raw := pg.URL
	if raw == "" {
		raw = postgres.DSN(pg.Write, pg.Prefix)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	query := parsed.Query()
	query.Set("x-migrations-table", pg.MigrationTable)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}

func getConnection(config *config.Config) (*migrate.Migrate, error) {
	dsn, err := connectionString(config)
	if err != nil {
		return nil, err
	}

	mig, err := migrate.New(migrationsSource, dsn)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

func Runner(config *config.Config, action string) error {
	mig, err := getConnection(config)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case "up":
		err = mig.Up()
	case "down":
		err = mig.Steps(-1)
	case "step-up":
		err = mig.Steps(1)
	case "drop":
		err = mig.Down()
	default:
		return fmt.Errorf("%q: %w", action, ErrUnknownAction)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	version, dirty, _ := mig.Version()
	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, "up")
}

func StepUp(config *config.Config) error {
	return Runner(config, "step-up")
}

func Down(config *config.Config) error {
	return Runner(config, "down")
}

func Drop(config *config.Config) error {
	return Runner(config, "drop")
}

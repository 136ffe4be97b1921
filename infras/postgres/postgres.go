package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"hostel/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName     = "postgres"
	maxIdleConns   = 10
	maxOpenConns   = 10
	connMaxIdleFor = 5 * time.Minute
)

// Connection splits reads from writes. Both sides point at one pool when a
// single URL is configured.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres
	wait := time.Duration(pg.RetryWaitTime) * time.Second

	if pg.URL != "" {
		db := open("primary", pg.URL, pg.MaxRetry, wait)

		return &Connection{Read: db, Write: db}
	}

	return &Connection{
		Read:  open("read", DSN(pg.Read, pg.Prefix), pg.MaxRetry, wait),
		Write: open("write", DSN(pg.Write, pg.Prefix), pg.MaxRetry, wait),
	}
}

// DSN renders an endpoint as a postgres URL. The database name gets prefix
// prepended and sslmode falls back to disable.
func DSN(endpoint config.PostgresEndpoint, prefix string) string {
	query := url.Values{}

	query.Set("sslmode", endpoint.SSLMode)
	if endpoint.SSLMode == "" {
		query.Set("sslmode", "disable")
	}

	if endpoint.Timezone != "" {
		query.Set("timezone", endpoint.Timezone)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Close releases both pools once each.
func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		errs = append(errs, c.Write.Close())
	}

	if c.Read != nil && c.Read != c.Write {
		errs = append(errs, c.Read.Close())
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// open dials with retries. If the database never answers, a lazy pool is
// returned so the server still boots and reports 500 until it comes back.
func open(name, dsn string, attempts int, wait time.Duration) *sqlx.DB {
	logger := log.With().Str("pool", name).Logger()

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, dsn)
		if err == nil {
			logger.Info().Msg("Connected to database")

			return tune(db)
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")
		time.Sleep(wait)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open database pool")

		return nil
	}

	logger.Warn().Msg("Database unreachable, serving with a lazy connection pool")

	return tune(db)
}

func tune(db *sqlx.DB) *sqlx.DB {
	db.SetMaxIdleConns(maxIdleConns)
	db.SetMaxOpenConns(maxOpenConns)
	db.SetConnMaxIdleTime(connMaxIdleFor)

	return db
}

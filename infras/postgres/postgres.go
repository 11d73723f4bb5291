package postgres

//nolint:revive
import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"campusbook/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	postgresMaxIdleConnection = 10
	postgresMaxOpenConnection = 10

	// sessionTimezone keeps timestamp columns on the zone-less wall clock the bookings are written in.
	sessionTimezone = "UTC"
)

var ErrConnectionExhausted = errors.New("database connection retries exhausted")

type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// New opens the read and write pools. Both must be reachable within the configured retries.
func New(cfg *config.Config) (*Connection, error) {
	write := connect(cfg, "write", cfg.DB.Postgres.Write)
	if write == nil {
		return nil, fmt.Errorf("write pool: %w", ErrConnectionExhausted)
	}

	read := connect(cfg, "read", cfg.DB.Postgres.Read)
	if read == nil {
		_ = write.Close()

		return nil, fmt.Errorf("read pool: %w", ErrConnectionExhausted)
	}

	return &Connection{
		Read:  read,
		Write: write,
	}, nil
}

// Close releases both pools. Safe when read and write share a handle.
func (c *Connection) Close() error {
	var errs []error

	if c.Write != nil {
		if err := c.Write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close write pool: %w", err))
		}
	}

	if c.Read != nil && c.Read != c.Write {
		if err := c.Read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close read pool: %w", err))
		}
	}

	return errors.Join(errs...)
}

// DSN renders endpoint as a postgres URL. The database name carries DB_POSTGRES_PREFIX and extra
// is appended to the query string, which is how the migrator passes x-migrations-table.
func DSN(cfg *config.Config, endpoint config.PostgresEndpoint, extra url.Values) string {
	query := url.Values{}

	sslMode := endpoint.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	query.Set("sslmode", sslMode)

	timezone := endpoint.Timezone
	if timezone == "" {
		timezone = sessionTimezone
	}

	query.Set("timezone", timezone)

	for key, values := range extra {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(endpoint.Username, endpoint.Password),
		Host:     net.JoinHostPort(endpoint.Host, endpoint.Port),
		Path:     "/" + cfg.DB.Postgres.Prefix + endpoint.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// connect retries DB_POSTGRES_MAX_RETRY times, waiting DB_POSTGRES_RETRY_WAIT_TIME seconds between
// attempts, and returns nil when every attempt failed.
func connect(cfg *config.Config, name string, endpoint config.PostgresEndpoint) *sqlx.DB {
	maxRetry := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(cfg.DB.Postgres.RetryWaitTime) * time.Second
	dsn := DSN(cfg, endpoint, nil)

	logger := log.With().
		Str("name", name).
		Str("host", endpoint.Host).
		Str("port", endpoint.Port).
		Str("dbName", cfg.DB.Postgres.Prefix+endpoint.Name).
		Logger()

	for attempt := 1; attempt <= maxRetry; attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(postgresMaxIdleConnection)
			db.SetMaxOpenConns(postgresMaxOpenConnection)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		if attempt < maxRetry {
			time.Sleep(wait)
		}
	}

	return nil
}

package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"

	"campusbook/config"
	"campusbook/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

// Action is a migration command understood by Runner.
type Action string

const (
	ActionUp      Action = "up"
	ActionDown    Action = "down"
	ActionStepUp  Action = "step-up"
	ActionDrop    Action = "drop"
	ActionVersion Action = "version"
)

const defaultMigrationsDir = "migrations/postgres"

var ErrUnknownAction = errors.New("unknown migration action")

func getConnection(config *config.Config, dir string) (*migrate.Migrate, error) {
	var extra url.Values
	if table := config.DB.Postgres.MigrationTable; table != "" {
		extra = url.Values{"x-migrations-table": {table}}
	}

	connectionString := postgres.DSN(config, config.DB.Postgres.Write, extra)

	mig, err := migrate.New("file://"+dir, connectionString)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return mig, nil
}

// Runner applies action using the SQL files in dir. An empty dir means migrations/postgres.
func Runner(config *config.Config, action Action, dir string) error {
	if dir == "" {
		dir = defaultMigrationsDir
	}

	mig, err := getConnection(config, dir)
	if err != nil {
		return err
	}

	defer mig.Close()

	switch action {
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	case ActionVersion:
		version, dirty, verErr := mig.Version()
		if verErr != nil && !errors.Is(verErr, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", verErr)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current database migration version")

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running %s migration: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed successfully")

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp, "")
}

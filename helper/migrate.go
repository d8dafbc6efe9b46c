package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"itinera/config"
	"net"
	"net/url"
	"slices"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

type MigrationAction string

const (
	MigrationUp      MigrationAction = "up"
	MigrationDown    MigrationAction = "down"
	MigrationStepUp  MigrationAction = "step-up"
	MigrationDrop    MigrationAction = "drop"
	MigrationVersion MigrationAction = "version"
)

var ErrUnknownMigrationAction = errors.New("unknown migration action")

var migrationActions = []MigrationAction{MigrationUp, MigrationDown, MigrationStepUp, MigrationDrop, MigrationVersion}

func databaseURL(cfg *config.Config) string {
	write := cfg.DB.Postgres.Write

	query := url.Values{}
	query.Set("sslmode", write.SSLMode)

	if cfg.DB.Postgres.MigrationTable != "" {
		query.Set("x-migrations-table", cfg.DB.Postgres.MigrationTable)
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(write.Username, write.Password),
		Host:     net.JoinHostPort(write.Host, write.Port),
		Path:     cfg.DB.Postgres.Prefix + write.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

func newMigrate(cfg *config.Config) (*migrate.Migrate, error) {
	mig, err := migrate.New("file://"+cfg.DB.Postgres.MigrationPath, databaseURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return mig, nil
}

// Migrate applies action to the write database. ErrNoChange is not treated as a failure.
func Migrate(cfg *config.Config, action MigrationAction) (err error) {
	if !slices.Contains(migrationActions, action) {
		return fmt.Errorf("%w: %s", ErrUnknownMigrationAction, action)
	}

	mig, err := newMigrate(cfg)
	if err != nil {
		return err
	}

	defer func() {
		srcErr, dbErr := mig.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	switch action {
	case MigrationUp:
		err = mig.Up()
	case MigrationDown:
		err = mig.Steps(-1)
	case MigrationStepUp:
		err = mig.Steps(1)
	case MigrationDrop:
		err = mig.Down()
	case MigrationVersion:
		return logVersion(mig)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migration %s: %w", action, err)
	}

	log.Info().Str("action", string(action)).Msg("Database migration completed")

	return nil
}

func logVersion(mig *migrate.Migrate) error {
	version, dirty, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		log.Info().Msg("No migration has been applied")

		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Current migration version")

	return nil
}

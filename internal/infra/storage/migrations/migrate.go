package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var migrationsFS embed.FS

var (
	// ErrMigrate возвращается при ошибке применения миграций
	ErrMigrate = errors.New("migrations: failed to apply migrations")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Up применяет все непримененные миграции из встроенных файлов
func Up(db *sql.DB, log Logger) error {
	source, err := iofs.New(migrationsFS, "sql")
	if err != nil {
		return fmt.Errorf("%w: Up - load source: %v", ErrMigrate, err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("%w: Up - create driver: %v", ErrMigrate, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("%w: Up - init migrate: %v", ErrMigrate, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%w: Up - apply: %v", ErrMigrate, err)
	}

	version, dirty, _ := m.Version()
	if dirty {
		log.Warn("Database migrations are dirty at version %d", version)
	} else {
		log.Info("Database migrations applied, version %d", version)
	}

	return nil
}

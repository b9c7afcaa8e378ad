package postgres

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"pnodev/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir   = "migrations"
	migrationsTable = "pno_schema_migrations"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

func setupGoose(ctx context.Context) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetTableName(migrationsTable)
	goose.SetLogger(gooseLogger{log: logger.FromContext(ctx).WithComponent("migrate")})
	return goose.SetDialect("postgres")
}

// Migrate applies pending migrations through the pool.
func Migrate(ctx context.Context, pool *Pool) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(ctx); err != nil {
		return fmt.Errorf("configure migrations: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool.Pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info(ctx, "schema migrated", "version", version)
	return nil
}

// Migrations lists the embedded migrations in version order.
func Migrations(ctx context.Context) (goose.Migrations, error) {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := setupGoose(ctx); err != nil {
		return nil, err
	}
	return goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
}

// gooseLogger routes goose output to zap. Fatalf must not exit the process.
type gooseLogger struct {
	log *logger.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Debugf(format, v...)
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Errorf(format, v...)
}

package migrations

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

func setup() error {
	goose.SetBaseFS(files)
	return goose.SetDialect("postgres")
}

// Up применяет все новые миграции. Вызывается при старте сервера и из dormctl.
func Up(ctx context.Context, pool *pgxpool.Pool) error {
	if err := setup(); err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("миграции: %w", err)
	}
	return nil
}

// Down откатывает последнюю миграцию.
func Down(ctx context.Context, pool *pgxpool.Pool) error {
	if err := setup(); err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return goose.DownContext(ctx, db, ".")
}

func Status(ctx context.Context, pool *pgxpool.Pool) error {
	if err := setup(); err != nil {
		return err
	}
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()
	return goose.StatusContext(ctx, db, ".")
}

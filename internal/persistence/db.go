package persistence

import (
	"context"
	"database/sql"

	"gorm.io/gorm/logger"

	"feedline/internal/core"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type txKey struct{}

type DB struct {
	db     *gorm.DB
	Config *core.Config
}

func (db *DB) Init(_ context.Context) error {
	gormDB, err := gorm.Open(postgres.Open(db.Config.PostgresDSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	db.db = gormDB

	return nil
}

// Model joins the transaction carried by ctx when there is one.
func (db *DB) Model(ctx context.Context, a any) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.Model(a)
	}
	return db.db.WithContext(ctx).Model(a)
}

// InTx runs fn inside a single transaction. Repository calls made with the
// ctx passed to fn share it.
func (db *DB) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (db *DB) EstimatedCount(tableName string) (int64, error) {
	var count int64
	return count, db.db.Raw(
		`SELECT reltuples::bigint AS count
				FROM pg_class
				WHERE relname = ?`, tableName,
	).Scan(&count).Error
}

func (db *DB) DB() (*sql.DB, error) {
	return db.db.DB()
}

func (db *DB) Shutdown(_ context.Context) error {
	sqlDB, err := db.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

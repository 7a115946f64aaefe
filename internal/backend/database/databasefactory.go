package database

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	TypeSQLite  = "sqlite"
	TypeMongoDB = "mongodb"
	TypeRedis   = "redis"
	TypeMinio   = "minio"
)

// SupportedTypes lists the accepted database type names.
var SupportedTypes = []string{TypeSQLite, TypeMongoDB, TypeRedis, TypeMinio}

func NewDatabase(ctx context.Context, databaseType, connectionString string) (database DatabaseService, err error) {
	switch databaseType {
	case TypeSQLite:
		database, err = NewSQLiteDatabase(connectionString)
	case TypeMongoDB:
		database, err = NewMongoDatabase(connectionString)
	case TypeRedis:
		database, err = NewRedisDatabase(connectionString)
	case TypeMinio:
		database, err = NewMinioDatabase(connectionString)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}
	if err != nil {
		return nil, err
	}

	// Ensure database schema exists (idempotent), important for in-memory SQLite
	slog.Info("initializing database schema (ensuring collections exist)", "type", databaseType)
	if err = database.CreateDatabase(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to create database: %w", err)
	}

	return database, nil
}

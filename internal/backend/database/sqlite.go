package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteDatabase struct {
	db *sql.DB
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// Every connection to an in-memory database opens a fresh, empty database.
	if isInMemory(connectionString) {
		db.SetMaxOpenConns(1)
	}

	return &SQLiteDatabase{db: db}, nil
}

func isInMemory(connectionString string) bool {
	return strings.Contains(connectionString, ":memory:") || strings.Contains(connectionString, "mode=memory")
}

func (s *SQLiteDatabase) CreateDatabase(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS images (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL UNIQUE,
		content_type TEXT NOT NULL,
		image_data TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist(ctx context.Context) bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.PingContext(ctx)
	return err == nil
}

func (s *SQLiteDatabase) CreateImage(ctx context.Context, record *ImageRecord) (*ImageRecord, error) {
	if err := validateRecord(record); err != nil {
		return nil, err
	}
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, "INSERT INTO images (id, filename, content_type, image_data) VALUES (?, ?, ?, ?)",
		id, record.Filename, record.ContentType, record.ImageData)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateFilename, record.Filename)
		}
		return nil, err
	}

	created := *record
	created.ID = id
	return &created, nil
}

func (s *SQLiteDatabase) GetAllImages(ctx context.Context) ([]*ImageRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, filename, content_type, image_data FROM images ORDER BY rowid")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	images := make([]*ImageRecord, 0)
	for rows.Next() {
		var img ImageRecord
		if err := rows.Scan(&img.ID, &img.Filename, &img.ContentType, &img.ImageData); err != nil {
			return nil, err
		}
		images = append(images, &img)
	}
	return images, rows.Err()
}

func (s *SQLiteDatabase) GetImageByFilename(ctx context.Context, filename string) (*ImageRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, filename, content_type, image_data FROM images WHERE filename = ?", filename)
	var img ImageRecord
	if err := row.Scan(&img.ID, &img.Filename, &img.ContentType, &img.ImageData); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
		}
		return nil, err
	}
	return &img, nil
}

func (s *SQLiteDatabase) DeleteImage(ctx context.Context, id string) error {
	id, err := parseID(id)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM images WHERE id = ?", id)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// Only the filename column is UNIQUE; primary key and NOT NULL failures
	// report their own extended codes.
	return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

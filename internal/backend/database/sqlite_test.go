package database

import (
	"context"
	"errors"
	"testing"
)

func newTestDB(t *testing.T) DatabaseService {
	t.Helper()

	ds, err := NewSQLiteDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteDatabase error: %v", err)
	}
	if err := ds.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("CreateDatabase error: %v", err)
	}
	t.Cleanup(func() { _ = ds.Close() })
	return ds
}

func newRecord(filename string) *ImageRecord {
	return &ImageRecord{
		Filename:    filename,
		ContentType: "image/png",
		ImageData:   "AAECAwQFBgcICQ==",
	}
}

func TestSQLite_DoesDatabaseExist(t *testing.T) {
	ds := newTestDB(t)
	if !ds.DoesDatabaseExist(context.Background()) {
		t.Fatalf("expected DoesDatabaseExist to return true")
	}
}

func TestSQLite_CreateDatabase_Idempotent(t *testing.T) {
	ds := newTestDB(t)
	if err := ds.CreateDatabase(context.Background()); err != nil {
		t.Fatalf("second CreateDatabase error: %v", err)
	}
}

func TestSQLite_CreateImage_AssignsID(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	input := newRecord("a.png")
	created, err := ds.CreateImage(ctx, input)
	if err != nil {
		t.Fatalf("CreateImage error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected store-assigned ID, got empty")
	}
	if input.ID != "" {
		t.Errorf("CreateImage must not mutate its input, got ID %q", input.ID)
	}
	if created.Filename != "a.png" || created.ContentType != "image/png" || created.ImageData != input.ImageData {
		t.Errorf("created record fields mismatch: %+v", created)
	}
}

func TestSQLite_CreateImage_MissingFields(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		record *ImageRecord
	}{
		{name: "nil record", record: nil},
		{name: "missing filename", record: &ImageRecord{ContentType: "image/png", ImageData: "AA=="}},
		{name: "missing content type", record: &ImageRecord{Filename: "x.png", ImageData: "AA=="}},
		{name: "missing data", record: &ImageRecord{Filename: "x.png", ContentType: "image/png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ds.CreateImage(ctx, tt.record); err == nil {
				t.Fatalf("expected error, got nil")
			}
		})
	}

	images, err := ds.GetAllImages(ctx)
	if err != nil {
		t.Fatalf("GetAllImages error: %v", err)
	}
	if len(images) != 0 {
		t.Fatalf("expected no persisted records, got %d", len(images))
	}
}

func TestSQLite_CreateImage_DuplicateFilename(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	if _, err := ds.CreateImage(ctx, newRecord("dup.png")); err != nil {
		t.Fatalf("CreateImage #1 error: %v", err)
	}
	_, err := ds.CreateImage(ctx, newRecord("dup.png"))
	if !errors.Is(err, ErrDuplicateFilename) {
		t.Fatalf("expected ErrDuplicateFilename, got %v", err)
	}
}

func TestSQLite_GetAllImages_InsertionOrder(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	names := []string{"c.png", "a.png", "b.png"}
	for _, name := range names {
		if _, err := ds.CreateImage(ctx, newRecord(name)); err != nil {
			t.Fatalf("CreateImage(%s) error: %v", name, err)
		}
	}

	images, err := ds.GetAllImages(ctx)
	if err != nil {
		t.Fatalf("GetAllImages error: %v", err)
	}
	if len(images) != len(names) {
		t.Fatalf("expected %d images, got %d", len(names), len(images))
	}
	for i, img := range images {
		if img.Filename != names[i] {
			t.Errorf("image[%d].Filename = %q, want %q", i, img.Filename, names[i])
		}
		if img.ID == "" {
			t.Errorf("image[%d].ID is empty; expected non-empty", i)
		}
	}
}

func TestSQLite_GetAllImages_Empty(t *testing.T) {
	ds := newTestDB(t)
	images, err := ds.GetAllImages(context.Background())
	if err != nil {
		t.Fatalf("GetAllImages error: %v", err)
	}
	if images == nil || len(images) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", images)
	}
}

func TestSQLite_GetImageByFilename(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	created, err := ds.CreateImage(ctx, newRecord("find-me.jpg"))
	if err != nil {
		t.Fatalf("CreateImage error: %v", err)
	}

	img, err := ds.GetImageByFilename(ctx, "find-me.jpg")
	if err != nil {
		t.Fatalf("GetImageByFilename error: %v", err)
	}
	if img.ID != created.ID {
		t.Errorf("expected ID %q, got %q", created.ID, img.ID)
	}
	if img.ImageData != created.ImageData {
		t.Errorf("ImageData mismatch: got %q", img.ImageData)
	}

	// Test non-existent filename
	_, err = ds.GetImageByFilename(ctx, "missing.jpg")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLite_DeleteImage(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	first, err := ds.CreateImage(ctx, newRecord("a.png"))
	if err != nil {
		t.Fatalf("CreateImage #1 error: %v", err)
	}
	second, err := ds.CreateImage(ctx, newRecord("b.png"))
	if err != nil {
		t.Fatalf("CreateImage #2 error: %v", err)
	}

	if err := ds.DeleteImage(ctx, first.ID); err != nil {
		t.Fatalf("DeleteImage error: %v", err)
	}

	images, err := ds.GetAllImages(ctx)
	if err != nil {
		t.Fatalf("GetAllImages error: %v", err)
	}
	if len(images) != 1 {
		t.Fatalf("expected 1 image after deletion, got %d", len(images))
	}
	if images[0].ID != second.ID {
		t.Fatalf("expected remaining ID %q, got %q", second.ID, images[0].ID)
	}
}

func TestSQLite_DeleteImage_UnknownAndMalformed(t *testing.T) {
	ds := newTestDB(t)
	ctx := context.Background()

	if err := ds.DeleteImage(ctx, "0b7e4a4c-8f57-4d0e-9a53-3c0c4b1f7d21"); err != nil {
		t.Fatalf("deleting unknown well-formed ID should succeed, got %v", err)
	}
	if err := ds.DeleteImage(ctx, "not-an-id"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestSQLite_isUniqueViolation(t *testing.T) {
	ds := newTestDB(t)
	db := ds.(*SQLiteDatabase).db
	ctx := context.Background()

	const insert = "INSERT INTO images (id, filename, content_type, image_data) VALUES (?, ?, ?, ?)"
	if _, err := db.ExecContext(ctx, insert, "id-1", "a.png", "image/png", "AA=="); err != nil {
		t.Fatalf("seed insert error: %v", err)
	}

	tests := []struct {
		name string
		args []any
		want bool
	}{
		{name: "duplicate filename", args: []any{"id-2", "a.png", "image/png", "AA=="}, want: true},
		{name: "duplicate id", args: []any{"id-1", "b.png", "image/png", "AA=="}, want: false},
		{name: "null content type", args: []any{"id-3", "c.png", nil, "AA=="}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.ExecContext(ctx, insert, tt.args...)
			if err == nil {
				t.Fatalf("expected constraint error")
			}
			if got := isUniqueViolation(err); got != tt.want {
				t.Errorf("isUniqueViolation(%v) = %v, want %v", err, got, tt.want)
			}
		})
	}

	if isUniqueViolation(errors.New("plain")) {
		t.Errorf("isUniqueViolation must reject non-sqlite errors")
	}
}

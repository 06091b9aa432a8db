package database

import (
	"context"
	"path/filepath"
	"testing"

	"fotohogar/internal/model"
)

func TestSQLiteRepository_Persistence(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "fotohogar.db")

	repo, err := NewSQLiteRepository(ctx, path, SeedDataset())
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	if err := repo.DeletePhoto(ctx, "1", "p1"); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if _, err := repo.AddMember(ctx, "1", "3"); err != nil {
		t.Fatalf("AddMember() error = %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must keep the changes and must not load the seed again.
	reopened, err := NewSQLiteRepository(ctx, path, SeedDataset())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	album := mustFindAlbum(t, reopened, "1")
	if album.PhotoCount != 7 {
		t.Errorf("PhotoCount = %d, want 7", album.PhotoCount)
	}
	if !album.HasMember("3") {
		t.Errorf("Members = %v, want 3 to be kept", album.Members)
	}
	users, _ := reopened.ListUsers(ctx)
	if len(users) != 2 {
		t.Errorf("len(users) = %d, want 2", len(users))
	}
}

func TestSQLiteRepository_CheckMigrations(t *testing.T) {
	repo, err := NewSQLiteRepository(context.Background(), ":memory:", nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	if err := repo.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}
	if repo.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", repo.Path())
	}
}

func TestSQLiteRepository_EmptyWithoutDataset(t *testing.T) {
	ctx := context.Background()
	repo, err := NewSQLiteRepository(ctx, ":memory:", nil)
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error = %v", err)
	}
	defer repo.Close()

	albums, err := repo.ListAlbums(ctx)
	if err != nil {
		t.Fatalf("ListAlbums() error = %v", err)
	}
	if len(albums) != 0 {
		t.Errorf("len(albums) = %d, want 0", len(albums))
	}

	if err := repo.CreateAlbum(ctx, &model.Album{ID: "x", CreatedBy: "u", Members: []string{"u"}}); err != nil {
		t.Fatalf("CreateAlbum() error = %v", err)
	}
	album := mustFindAlbum(t, repo, "x")
	if album.PhotoCount != 0 {
		t.Errorf("PhotoCount = %d, want 0", album.PhotoCount)
	}
}

func TestSQLiteRepository_RejectsDuplicateDatasetEmails(t *testing.T) {
	ds := &Dataset{Users: []*model.User{
		{ID: "a", Email: "same@example.com"},
		{ID: "b", Email: "SAME@example.com"},
	}}
	if _, err := NewSQLiteRepository(context.Background(), ":memory:", ds); err == nil {
		t.Fatal("NewSQLiteRepository() expected unique email violation")
	}
}

package database

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
)

// forEachRepository runs fn against a freshly seeded instance of every
// Repository implementation.
func forEachRepository(t *testing.T, fn func(t *testing.T, repo fotohogar.Repository)) {
	t.Helper()

	impls := []struct {
		name string
		open func(t *testing.T) fotohogar.Repository
	}{
		{"memory", func(t *testing.T) fotohogar.Repository {
			return NewMemoryRepository(SeedDataset())
		}},
		{"sqlite", func(t *testing.T) fotohogar.Repository {
			repo, err := NewSQLiteRepository(context.Background(), ":memory:", SeedDataset())
			if err != nil {
				t.Fatalf("NewSQLiteRepository() error = %v", err)
			}
			return repo
		}},
	}

	for _, impl := range impls {
		t.Run(impl.name, func(t *testing.T) {
			repo := impl.open(t)
			t.Cleanup(func() { repo.Close() })
			fn(t, repo)
		})
	}
}

func mustFindAlbum(t *testing.T, repo fotohogar.Repository, id string) *model.Album {
	t.Helper()
	album, err := repo.FindAlbum(context.Background(), id)
	if err != nil {
		t.Fatalf("FindAlbum(%q) error = %v", id, err)
	}
	if album == nil {
		t.Fatalf("FindAlbum(%q) = nil", id)
	}
	return album
}

func TestRepository_Users(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		ctx := context.Background()

		users, err := repo.ListUsers(ctx)
		if err != nil {
			t.Fatalf("ListUsers() error = %v", err)
		}
		if len(users) != 2 || users[0].ID != "1" || users[1].ID != "2" {
			t.Fatalf("ListUsers() = %+v, want seed users 1 and 2", users)
		}

		t.Run("find by email ignores case and spaces", func(t *testing.T) {
			u, err := repo.FindUserByEmail(ctx, "  MARIA@FotoHogar.com ")
			if err != nil {
				t.Fatalf("FindUserByEmail() error = %v", err)
			}
			if u == nil || u.ID != "2" {
				t.Errorf("FindUserByEmail() = %+v, want user 2", u)
			}
		})

		t.Run("unknown email returns nil", func(t *testing.T) {
			u, err := repo.FindUserByEmail(ctx, "nobody@fotohogar.com")
			if err != nil {
				t.Fatalf("FindUserByEmail() error = %v", err)
			}
			if u != nil {
				t.Errorf("FindUserByEmail() = %+v, want nil", u)
			}
		})
	})
}

func TestRepository_Albums(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		ctx := context.Background()

		albums, err := repo.ListAlbums(ctx)
		if err != nil {
			t.Fatalf("ListAlbums() error = %v", err)
		}
		if len(albums) != 4 {
			t.Fatalf("len(ListAlbums()) = %d, want 4", len(albums))
		}
		for i, want := range []string{"1", "2", "3", "4"} {
			if albums[i].ID != want {
				t.Errorf("albums[%d].ID = %q, want %q", i, albums[i].ID, want)
			}
		}

		t.Run("photo counts match photos", func(t *testing.T) {
			for _, a := range albums {
				photos, err := repo.ListPhotos(ctx, a.ID)
				if err != nil {
					t.Fatalf("ListPhotos(%q) error = %v", a.ID, err)
				}
				if a.PhotoCount != len(photos) {
					t.Errorf("album %s PhotoCount = %d, want %d", a.ID, a.PhotoCount, len(photos))
				}
			}
		})

		t.Run("unknown album returns nil", func(t *testing.T) {
			album, err := repo.FindAlbum(ctx, "999")
			if err != nil {
				t.Fatalf("FindAlbum() error = %v", err)
			}
			if album != nil {
				t.Errorf("FindAlbum() = %+v, want nil", album)
			}
		})

		t.Run("create then find", func(t *testing.T) {
			created := &model.Album{
				ID:          "a-new",
				Title:       "Boda",
				Description: "La boda de la prima",
				CoverImage:  "cover.jpg",
				CreatedBy:   "2",
				Members:     []string{"2", "1"},
				CreatedAt:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
				StartDate:   "2025-05-01",
			}
			if err := repo.CreateAlbum(ctx, created); err != nil {
				t.Fatalf("CreateAlbum() error = %v", err)
			}

			got := mustFindAlbum(t, repo, "a-new")
			if got.Title != "Boda" || got.CreatedBy != "2" || got.StartDate != "2025-05-01" {
				t.Errorf("FindAlbum() = %+v, want the created album", got)
			}
			if len(got.Members) != 2 || got.Members[0] != "2" || got.Members[1] != "1" {
				t.Errorf("Members = %v, want [2 1]", got.Members)
			}
			if !got.CreatedAt.Equal(created.CreatedAt) {
				t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created.CreatedAt)
			}

			all, _ := repo.ListAlbums(ctx)
			if all[len(all)-1].ID != "a-new" {
				t.Errorf("last album = %q, want a-new", all[len(all)-1].ID)
			}
		})

		t.Run("update merges supplied fields", func(t *testing.T) {
			title := "Playa 2024"
			got, err := repo.UpdateAlbum(ctx, "1", model.AlbumPatch{Title: &title})
			if err != nil {
				t.Fatalf("UpdateAlbum() error = %v", err)
			}
			if got.Title != title {
				t.Errorf("Title = %q, want %q", got.Title, title)
			}
			if got.Description != "Nuestro viaje familiar a Máncora" {
				t.Errorf("Description changed to %q", got.Description)
			}
			if len(got.Members) != 2 {
				t.Errorf("Members = %v, want 2 members", got.Members)
			}
			if stored := mustFindAlbum(t, repo, "1"); stored.Title != title {
				t.Errorf("stored Title = %q, want %q", stored.Title, title)
			}
		})

		t.Run("update unknown album", func(t *testing.T) {
			title := "x"
			_, err := repo.UpdateAlbum(ctx, "999", model.AlbumPatch{Title: &title})
			if !errors.Is(err, fotohogar.ErrNotFound) {
				t.Errorf("UpdateAlbum() error = %v, want ErrNotFound", err)
			}
		})
	})
}

func TestRepository_Members(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		ctx := context.Background()

		members, err := repo.ListMembers(ctx, "1")
		if err != nil {
			t.Fatalf("ListMembers() error = %v", err)
		}
		if len(members) != 2 || members[0].Name != "Juan" {
			t.Errorf("ListMembers() = %+v, want Juan and María", members)
		}

		if _, err := repo.ListMembers(ctx, "999"); !errors.Is(err, fotohogar.ErrNotFound) {
			t.Errorf("ListMembers(unknown) error = %v, want ErrNotFound", err)
		}

		t.Run("creator cannot be removed", func(t *testing.T) {
			err := repo.RemoveMember(ctx, "1", "1")
			if !errors.Is(err, fotohogar.ErrForbidden) {
				t.Errorf("RemoveMember(creator) error = %v, want ErrForbidden", err)
			}
			if !mustFindAlbum(t, repo, "1").HasMember("1") {
				t.Error("creator was removed")
			}
		})

		t.Run("remove then add back", func(t *testing.T) {
			if err := repo.RemoveMember(ctx, "1", "2"); err != nil {
				t.Fatalf("RemoveMember() error = %v", err)
			}
			if mustFindAlbum(t, repo, "1").HasMember("2") {
				t.Fatal("member still present after RemoveMember")
			}

			err := repo.RemoveMember(ctx, "1", "2")
			if !errors.Is(err, fotohogar.ErrNotFound) {
				t.Errorf("second RemoveMember() error = %v, want ErrNotFound", err)
			}

			user, err := repo.AddMember(ctx, "1", "2")
			if err != nil {
				t.Fatalf("AddMember() error = %v", err)
			}
			if user == nil || user.Email != "maria@fotohogar.com" {
				t.Errorf("AddMember() user = %+v, want María", user)
			}
			album := mustFindAlbum(t, repo, "1")
			if album.Members[len(album.Members)-1] != "2" {
				t.Errorf("Members = %v, want 2 appended last", album.Members)
			}
		})

		t.Run("duplicate add is a conflict", func(t *testing.T) {
			_, err := repo.AddMember(ctx, "2", "1")
			if !errors.Is(err, fotohogar.ErrConflict) {
				t.Errorf("AddMember(existing) error = %v, want ErrConflict", err)
			}
			if n := len(mustFindAlbum(t, repo, "2").Members); n != 2 {
				t.Errorf("len(Members) = %d, want 2", n)
			}
		})

		t.Run("unknown user id is stored but not listed", func(t *testing.T) {
			user, err := repo.AddMember(ctx, "3", "ghost")
			if err != nil {
				t.Fatalf("AddMember() error = %v", err)
			}
			if user != nil {
				t.Errorf("AddMember() user = %+v, want nil", user)
			}
			members, _ := repo.ListMembers(ctx, "3")
			if len(members) != 2 {
				t.Errorf("len(ListMembers()) = %d, want 2", len(members))
			}
		})

		t.Run("unknown album", func(t *testing.T) {
			if _, err := repo.AddMember(ctx, "999", "1"); !errors.Is(err, fotohogar.ErrNotFound) {
				t.Errorf("AddMember() error = %v, want ErrNotFound", err)
			}
			if err := repo.RemoveMember(ctx, "999", "2"); !errors.Is(err, fotohogar.ErrNotFound) {
				t.Errorf("RemoveMember() error = %v, want ErrNotFound", err)
			}
		})
	})
}

func TestRepository_Photos(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		ctx := context.Background()

		photos, err := repo.ListPhotos(ctx, "1")
		if err != nil {
			t.Fatalf("ListPhotos() error = %v", err)
		}
		if len(photos) != 8 || photos[0].ID != "p1" || photos[7].ID != "p8" {
			t.Fatalf("ListPhotos(1) = %d photos, want p1..p8 in order", len(photos))
		}

		t.Run("unknown album yields empty list", func(t *testing.T) {
			photos, err := repo.ListPhotos(ctx, "999")
			if err != nil {
				t.Fatalf("ListPhotos() error = %v", err)
			}
			if len(photos) != 0 {
				t.Errorf("len(ListPhotos()) = %d, want 0", len(photos))
			}
		})

		t.Run("create increments count", func(t *testing.T) {
			before := mustFindAlbum(t, repo, "1").PhotoCount
			photo := &model.Photo{
				ID:         "new-photo",
				AlbumID:    "1",
				URL:        "https://example.com/new.jpg",
				Thumbnail:  "https://example.com/new.jpg",
				UploadedBy: "2",
				UploadedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
				Caption:    "Nueva",
			}
			if err := repo.CreatePhoto(ctx, photo); err != nil {
				t.Fatalf("CreatePhoto() error = %v", err)
			}
			if got := mustFindAlbum(t, repo, "1").PhotoCount; got != before+1 {
				t.Errorf("PhotoCount = %d, want %d", got, before+1)
			}

			photos, _ := repo.ListPhotos(ctx, "1")
			last := photos[len(photos)-1]
			if last.ID != "new-photo" || last.Caption != "Nueva" || !last.UploadedAt.Equal(photo.UploadedAt) {
				t.Errorf("last photo = %+v, want the created photo", last)
			}
		})

		t.Run("delete decrements count", func(t *testing.T) {
			before := mustFindAlbum(t, repo, "1").PhotoCount
			if err := repo.DeletePhoto(ctx, "1", "p1"); err != nil {
				t.Fatalf("DeletePhoto() error = %v", err)
			}
			if got := mustFindAlbum(t, repo, "1").PhotoCount; got != before-1 {
				t.Errorf("PhotoCount = %d, want %d", got, before-1)
			}
			photos, _ := repo.ListPhotos(ctx, "1")
			for _, p := range photos {
				if p.ID == "p1" {
					t.Error("p1 still listed after delete")
				}
			}
		})

		t.Run("delete unknown photo", func(t *testing.T) {
			before := mustFindAlbum(t, repo, "2").PhotoCount
			err := repo.DeletePhoto(ctx, "2", "p1")
			if !errors.Is(err, fotohogar.ErrNotFound) {
				t.Errorf("DeletePhoto() error = %v, want ErrNotFound", err)
			}
			if got := mustFindAlbum(t, repo, "2").PhotoCount; got != before {
				t.Errorf("PhotoCount = %d, want unchanged %d", got, before)
			}
		})

		t.Run("photo in unknown album is stored", func(t *testing.T) {
			photo := &model.Photo{ID: "orphan", AlbumID: "999", URL: "u", UploadedAt: time.Now()}
			if err := repo.CreatePhoto(ctx, photo); err != nil {
				t.Fatalf("CreatePhoto() error = %v", err)
			}
			photos, _ := repo.ListPhotos(ctx, "999")
			if len(photos) != 1 {
				t.Errorf("len(ListPhotos(999)) = %d, want 1", len(photos))
			}
		})
	})
}

func TestRepository_ConcurrentUploadsAndDeletes(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		ctx := context.Background()
		const n = 20

		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				photo := &model.Photo{
					ID:         "c" + string(rune('a'+i)),
					AlbumID:    "4",
					URL:        "u",
					UploadedAt: time.Now(),
				}
				if err := repo.CreatePhoto(ctx, photo); err != nil {
					t.Errorf("CreatePhoto() error = %v", err)
				}
			}()
		}
		for _, id := range []string{"p15", "p16"} {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := repo.DeletePhoto(ctx, "4", id); err != nil {
					t.Errorf("DeletePhoto() error = %v", err)
				}
			}()
		}
		wg.Wait()

		photos, _ := repo.ListPhotos(ctx, "4")
		album := mustFindAlbum(t, repo, "4")
		if album.PhotoCount != len(photos) || len(photos) != n {
			t.Errorf("PhotoCount = %d, photos = %d, want both %d", album.PhotoCount, len(photos), n)
		}
	})
}

func TestRepository_ReturnsCopies(t *testing.T) {
	forEachRepository(t, func(t *testing.T, repo fotohogar.Repository) {
		album := mustFindAlbum(t, repo, "1")
		album.Title = "mutated"
		album.Members[0] = "mutated"

		again := mustFindAlbum(t, repo, "1")
		if again.Title == "mutated" || again.Members[0] == "mutated" {
			t.Error("mutating a returned album changed stored state")
		}
	})
}

func TestMemoryRepository_IndependentInstances(t *testing.T) {
	ctx := context.Background()
	a := NewMemoryRepository(SeedDataset())
	b := NewMemoryRepository(SeedDataset())

	if err := a.DeletePhoto(ctx, "1", "p1"); err != nil {
		t.Fatalf("DeletePhoto() error = %v", err)
	}
	if got := mustFindAlbum(t, b, "1").PhotoCount; got != 8 {
		t.Errorf("other instance PhotoCount = %d, want 8", got)
	}
}

func TestMemoryRepository_Empty(t *testing.T) {
	repo := NewMemoryRepository(nil)
	users, err := repo.ListUsers(context.Background())
	if err != nil || len(users) != 0 {
		t.Errorf("ListUsers() = %v, %v; want empty", users, err)
	}
}

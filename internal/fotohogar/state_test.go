package fotohogar_test

import (
	"sync"
	"testing"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
)

func TestSessionState(t *testing.T) {
	s := fotohogar.NewSessionState()
	if s.IsAuthenticated() || s.User() != nil {
		t.Fatal("new session is not logged out")
	}

	var seen []fotohogar.Session
	unsubscribe := s.Subscribe(func(snap fotohogar.Session) {
		seen = append(seen, snap)
	})

	juan := &model.User{ID: "1", Name: "Juan"}
	s.SetUser(juan)
	if !s.IsAuthenticated() || s.User().ID != "1" {
		t.Errorf("after SetUser: authed=%v user=%v", s.IsAuthenticated(), s.User())
	}

	s.Logout()
	if s.IsAuthenticated() || s.User() != nil {
		t.Errorf("after Logout: authed=%v user=%v", s.IsAuthenticated(), s.User())
	}

	unsubscribe()
	s.Restore(fotohogar.Session{User: juan, IsAuthenticated: true})
	if snap := s.Snapshot(); !snap.IsAuthenticated || snap.User != juan {
		t.Errorf("Snapshot() = %+v after Restore", snap)
	}

	if len(seen) != 2 {
		t.Fatalf("listener saw %d changes, want 2", len(seen))
	}
	if !seen[0].IsAuthenticated || seen[1].IsAuthenticated {
		t.Errorf("listener saw %+v", seen)
	}
}

func TestSessionState_ConcurrentAccess(t *testing.T) {
	s := fotohogar.NewSessionState()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetUser(&model.User{ID: "1"})
		}()
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	if !s.IsAuthenticated() {
		t.Error("session not authenticated after concurrent logins")
	}
}

func seedAlbums() []*model.Album {
	return []*model.Album{
		{ID: "1", Title: "Playa", Members: []string{"1", "2"}},
		{ID: "2", Title: "Cumpleaños", Members: []string{"2"}},
	}
}

func TestAlbumState_Albums(t *testing.T) {
	s := fotohogar.NewAlbumState()
	s.SetAlbums(seedAlbums())
	s.AddAlbum(&model.Album{ID: "3", Title: "Navidad"})

	if got := len(s.Albums()); got != 3 {
		t.Fatalf("len(Albums()) = %d, want 3", got)
	}
	if a, ok := s.AlbumByID("3"); !ok || a.Title != "Navidad" {
		t.Errorf("AlbumByID(3) = %v, %v", a, ok)
	}
	if _, ok := s.AlbumByID("9"); ok {
		t.Error("AlbumByID(9) found an album")
	}
}

func TestAlbumState_UpdateAlbum(t *testing.T) {
	albums := seedAlbums()
	s := fotohogar.NewAlbumState()
	s.SetAlbums(albums)
	s.SetCurrentAlbum(albums[0])

	title := "Playa 2024"
	s.UpdateAlbum("1", model.AlbumPatch{Title: &title})

	if a, _ := s.AlbumByID("1"); a.Title != title {
		t.Errorf("listed title = %q, want %q", a.Title, title)
	}
	if got := s.CurrentAlbum().Title; got != title {
		t.Errorf("current title = %q, want %q", got, title)
	}
	if albums[0].Title != "Playa" {
		t.Error("UpdateAlbum mutated the caller's album")
	}

	s.UpdateAlbum("9", model.AlbumPatch{Title: &title})
	if a, _ := s.AlbumByID("2"); a.Title != "Cumpleaños" {
		t.Errorf("unrelated album changed: %q", a.Title)
	}
}

func TestAlbumState_Photos(t *testing.T) {
	s := fotohogar.NewAlbumState()
	p1 := &model.Photo{ID: "p1", AlbumID: "1"}
	p2 := &model.Photo{ID: "p2", AlbumID: "1"}

	s.SetPhotos([]*model.Photo{p1})
	s.AddPhoto(p2)
	s.SetSelectedPhoto(p2)

	if got := len(s.Photos()); got != 2 {
		t.Fatalf("len(Photos()) = %d, want 2", got)
	}

	s.RemovePhoto("p1")
	if s.SelectedPhoto() != p2 {
		t.Error("removing another photo cleared the selection")
	}

	s.RemovePhoto("p2")
	if len(s.Photos()) != 0 {
		t.Errorf("Photos() = %v, want empty", s.Photos())
	}
	if s.SelectedPhoto() != nil {
		t.Error("removing the selected photo did not clear the selection")
	}
}

func TestAlbumState_Subscribe(t *testing.T) {
	s := fotohogar.NewAlbumState()

	var views []fotohogar.AlbumView
	unsubscribe := s.Subscribe(func(v fotohogar.AlbumView) {
		views = append(views, v)
	})

	s.SetAlbums(seedAlbums())
	s.SetCurrentAlbum(seedAlbums()[1])
	unsubscribe()
	s.SetAlbums(nil)

	if len(views) != 2 {
		t.Fatalf("subscriber saw %d views, want 2", len(views))
	}
	if len(views[1].Albums) != 2 || views[1].CurrentAlbum.ID != "2" {
		t.Errorf("last view = %+v", views[1])
	}
}

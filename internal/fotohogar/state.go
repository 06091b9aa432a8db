package fotohogar

import (
	"sync"

	"fotohogar/internal/model"
)

// Session is the serialisable snapshot of SessionState.
type Session struct {
	User            *model.User `json:"user"`
	IsAuthenticated bool        `json:"isAuthenticated"`
}

// listeners is a set of subscriber callbacks keyed by registration order.
type listeners[T any] struct {
	next int
	fns  map[int]func(T)
}

func (l *listeners[T]) add(fn func(T)) int {
	if l.fns == nil {
		l.fns = make(map[int]func(T))
	}
	l.next++
	l.fns[l.next] = fn
	return l.next
}

func (l *listeners[T]) snapshot() []func(T) {
	fns := make([]func(T), 0, len(l.fns))
	for i := 1; i <= l.next; i++ {
		if fn, ok := l.fns[i]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// SessionState holds the authenticated user. It is safe for concurrent use.
// Persistence is not its concern: callers serialise Snapshot through a
// session persister.
type SessionState struct {
	mu        sync.RWMutex
	user      *model.User
	authed    bool
	listeners listeners[Session]
}

// NewSessionState returns a logged-out session.
func NewSessionState() *SessionState {
	return &SessionState{}
}

// SetUser records a successful login.
func (s *SessionState) SetUser(user *model.User) {
	s.mu.Lock()
	s.user = user
	s.authed = true
	s.mu.Unlock()
	s.notify()
}

// Logout clears the user.
func (s *SessionState) Logout() {
	s.mu.Lock()
	s.user = nil
	s.authed = false
	s.mu.Unlock()
	s.notify()
}

// Restore replaces the state with a previously persisted snapshot.
func (s *SessionState) Restore(session Session) {
	s.mu.Lock()
	s.user = session.User
	s.authed = session.IsAuthenticated
	s.mu.Unlock()
	s.notify()
}

// User returns the current user, or nil.
func (s *SessionState) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated reports whether a user is logged in.
func (s *SessionState) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authed
}

// Snapshot returns the current state.
func (s *SessionState) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Session{User: s.user, IsAuthenticated: s.authed}
}

// Subscribe registers fn to run after every change. The returned func unsubscribes.
func (s *SessionState) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.listeners.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners.fns, id)
		s.mu.Unlock()
	}
}

func (s *SessionState) notify() {
	s.mu.RLock()
	snap := Session{User: s.user, IsAuthenticated: s.authed}
	fns := s.listeners.snapshot()
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// AlbumView is the snapshot published to AlbumState subscribers.
type AlbumView struct {
	Albums        []*model.Album
	CurrentAlbum  *model.Album
	Photos        []*model.Photo
	SelectedPhoto *model.Photo
}

// AlbumState holds the album list, the album being viewed, its photos and the
// selected photo. It is transient and does not validate what it is given.
type AlbumState struct {
	mu        sync.RWMutex
	albums    []*model.Album
	current   *model.Album
	photos    []*model.Photo
	selected  *model.Photo
	listeners listeners[AlbumView]
}

// NewAlbumState returns an empty store.
func NewAlbumState() *AlbumState {
	return &AlbumState{}
}

func (s *AlbumState) update(fn func()) {
	s.mu.Lock()
	fn()
	view := s.viewLocked()
	fns := s.listeners.snapshot()
	s.mu.Unlock()
	for _, l := range fns {
		l(view)
	}
}

func (s *AlbumState) viewLocked() AlbumView {
	return AlbumView{
		Albums:        append([]*model.Album(nil), s.albums...),
		CurrentAlbum:  s.current,
		Photos:        append([]*model.Photo(nil), s.photos...),
		SelectedPhoto: s.selected,
	}
}

// SetAlbums replaces the album list.
func (s *AlbumState) SetAlbums(albums []*model.Album) {
	s.update(func() { s.albums = albums })
}

// SetCurrentAlbum sets the album being viewed.
func (s *AlbumState) SetCurrentAlbum(album *model.Album) {
	s.update(func() { s.current = album })
}

// AddAlbum appends an album to the list.
func (s *AlbumState) AddAlbum(album *model.Album) {
	s.update(func() {
		s.albums = append(append([]*model.Album(nil), s.albums...), album)
	})
}

// UpdateAlbum merges patch into the listed album with the given ID. The
// current album is updated too when it is the same album.
func (s *AlbumState) UpdateAlbum(albumID string, patch model.AlbumPatch) {
	s.update(func() {
		albums := make([]*model.Album, len(s.albums))
		for i, a := range s.albums {
			if a.ID == albumID {
				merged := a.Clone()
				patch.Apply(merged)
				a = merged
			}
			albums[i] = a
		}
		s.albums = albums

		if s.current != nil && s.current.ID == albumID {
			merged := s.current.Clone()
			patch.Apply(merged)
			s.current = merged
		}
	})
}

// SetPhotos replaces the current album's photo list.
func (s *AlbumState) SetPhotos(photos []*model.Photo) {
	s.update(func() { s.photos = photos })
}

// AddPhoto appends a photo to the current list.
func (s *AlbumState) AddPhoto(photo *model.Photo) {
	s.update(func() {
		s.photos = append(append([]*model.Photo(nil), s.photos...), photo)
	})
}

// RemovePhoto drops the photo with the given ID from the current list.
func (s *AlbumState) RemovePhoto(photoID string) {
	s.update(func() {
		photos := make([]*model.Photo, 0, len(s.photos))
		for _, p := range s.photos {
			if p.ID != photoID {
				photos = append(photos, p)
			}
		}
		s.photos = photos
		if s.selected != nil && s.selected.ID == photoID {
			s.selected = nil
		}
	})
}

// SetSelectedPhoto sets (or with nil clears) the photo being previewed.
func (s *AlbumState) SetSelectedPhoto(photo *model.Photo) {
	s.update(func() { s.selected = photo })
}

// AlbumByID looks an album up in the in-memory list.
func (s *AlbumState) AlbumByID(albumID string) (*model.Album, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.albums {
		if a.ID == albumID {
			return a, true
		}
	}
	return nil, false
}

// Albums returns the album list.
func (s *AlbumState) Albums() []*model.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Album(nil), s.albums...)
}

// CurrentAlbum returns the album being viewed, or nil.
func (s *AlbumState) CurrentAlbum() *model.Album {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Photos returns the current album's photos.
func (s *AlbumState) Photos() []*model.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Photo(nil), s.photos...)
}

// SelectedPhoto returns the photo being previewed, or nil.
func (s *AlbumState) SelectedPhoto() *model.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Subscribe registers fn to run after every change. The returned func unsubscribes.
func (s *AlbumState) Subscribe(fn func(AlbumView)) func() {
	s.mu.Lock()
	id := s.listeners.add(fn)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners.fns, id)
		s.mu.Unlock()
	}
}

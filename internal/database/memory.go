package database

import (
	"context"
	"strings"
	"sync"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"
)

// MemoryRepository is an in-memory implementation of fotohogar.Repository.
// Each instance owns its own copy of the dataset, so tests and app instances
// never share state. Every method runs under a single lock, which makes the
// membership checks and the photo/count updates atomic.
// Reads return copies; callers cannot mutate stored records.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  []*model.User
	albums []*model.Album
	photos map[string][]*model.Photo // albumID -> photos in upload order
}

// NewMemoryRepository creates a repository loaded with a deep copy of ds.
// A nil dataset yields an empty repository.
func NewMemoryRepository(ds *Dataset) *MemoryRepository {
	r := &MemoryRepository{photos: make(map[string][]*model.Photo)}
	if ds == nil {
		return r
	}

	for _, u := range ds.Users {
		c := *u
		r.users = append(r.users, &c)
	}

	counts := ds.photoCounts()
	for _, a := range ds.Albums {
		c := a.Clone()
		c.PhotoCount = counts[c.ID]
		r.albums = append(r.albums, c)
	}

	for _, p := range ds.Photos {
		c := *p
		r.photos[c.AlbumID] = append(r.photos[c.AlbumID], &c)
	}
	return r
}

// User operations

func (r *MemoryRepository) ListUsers(_ context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.User, len(r.users))
	for i, u := range r.users {
		c := *u
		result[i] = &c
	}
	return result, nil
}

func (r *MemoryRepository) FindUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email)) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

// findUserLocked returns the stored user or nil. Caller holds the lock.
func (r *MemoryRepository) findUserLocked(id string) *model.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// Album operations

func (r *MemoryRepository) ListAlbums(_ context.Context) ([]*model.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Album, len(r.albums))
	for i, a := range r.albums {
		result[i] = a.Clone()
	}
	return result, nil
}

func (r *MemoryRepository) FindAlbum(_ context.Context, id string) (*model.Album, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a := r.findAlbumLocked(id); a != nil {
		return a.Clone(), nil
	}
	return nil, nil
}

// findAlbumLocked returns the stored album or nil. Caller holds the lock.
func (r *MemoryRepository) findAlbumLocked(id string) *model.Album {
	for _, a := range r.albums {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (r *MemoryRepository) CreateAlbum(_ context.Context, album *model.Album) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.albums = append(r.albums, album.Clone())
	return nil
}

func (r *MemoryRepository) UpdateAlbum(_ context.Context, id string, patch model.AlbumPatch) (*model.Album, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	album := r.findAlbumLocked(id)
	if album == nil {
		return nil, fotohogar.ErrAlbumNotFound
	}
	patch.Apply(album)
	return album.Clone(), nil
}

// Membership operations

func (r *MemoryRepository) ListMembers(_ context.Context, albumID string) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	album := r.findAlbumLocked(albumID)
	if album == nil {
		return nil, fotohogar.ErrAlbumNotFound
	}

	members := make([]*model.User, 0, len(album.Members))
	for _, id := range album.Members {
		if u := r.findUserLocked(id); u != nil {
			c := *u
			members = append(members, &c)
		}
	}
	return members, nil
}

func (r *MemoryRepository) AddMember(_ context.Context, albumID, userID string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	album := r.findAlbumLocked(albumID)
	if album == nil {
		return nil, fotohogar.ErrAlbumNotFound
	}
	if album.HasMember(userID) {
		return nil, fotohogar.ErrAlreadyMember
	}

	album.Members = append(album.Members, userID)

	if u := r.findUserLocked(userID); u != nil {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r *MemoryRepository) RemoveMember(_ context.Context, albumID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	album := r.findAlbumLocked(albumID)
	if album == nil {
		return fotohogar.ErrAlbumNotFound
	}
	if album.CreatedBy == userID {
		return fotohogar.ErrRemoveCreator
	}

	for i, m := range album.Members {
		if m == userID {
			album.Members = append(album.Members[:i:i], album.Members[i+1:]...)
			return nil
		}
	}
	return fotohogar.ErrNotMember
}

// Photo operations

func (r *MemoryRepository) ListPhotos(_ context.Context, albumID string) ([]*model.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.photos[albumID]
	result := make([]*model.Photo, len(stored))
	for i, p := range stored {
		c := *p
		result[i] = &c
	}
	return result, nil
}

func (r *MemoryRepository) CreatePhoto(_ context.Context, photo *model.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := *photo
	r.photos[c.AlbumID] = append(r.photos[c.AlbumID], &c)

	if album := r.findAlbumLocked(c.AlbumID); album != nil {
		album.PhotoCount++
	}
	return nil
}

func (r *MemoryRepository) DeletePhoto(_ context.Context, albumID, photoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	photos := r.photos[albumID]
	for i, p := range photos {
		if p.ID != photoID {
			continue
		}
		r.photos[albumID] = append(photos[:i:i], photos[i+1:]...)
		if album := r.findAlbumLocked(albumID); album != nil {
			album.PhotoCount = max(0, album.PhotoCount-1)
		}
		return nil
	}
	return fotohogar.ErrPhotoNotFound
}

// Close is a no-op for the in-memory repository.
func (r *MemoryRepository) Close() error {
	return nil
}

// Compile-time check that MemoryRepository implements fotohogar.Repository
var _ fotohogar.Repository = (*MemoryRepository)(nil)

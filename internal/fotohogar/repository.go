package fotohogar

import (
	"context"

	"fotohogar/internal/model"
)

// Repository is the storage behind the data service. Implementations own
// their dataset (no package-level state) and must make every method atomic:
// membership checks happen in the same critical section as the mutation, and
// photo creation/deletion updates the album's photo count in the same step.
type Repository interface {
	// User operations

	// ListUsers returns every user.
	ListUsers(ctx context.Context) ([]*model.User, error)

	// FindUserByEmail matches email case-insensitively. Returns nil, nil when absent.
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)

	// Album operations

	// ListAlbums returns every album in creation order.
	ListAlbums(ctx context.Context) ([]*model.Album, error)

	// FindAlbum returns an album by ID. Returns nil, nil when absent.
	FindAlbum(ctx context.Context, id string) (*model.Album, error)

	// CreateAlbum appends a fully populated album.
	CreateAlbum(ctx context.Context, album *model.Album) error

	// UpdateAlbum merges patch into the album and returns the merged record.
	// Returns ErrAlbumNotFound when the album does not exist.
	UpdateAlbum(ctx context.Context, id string, patch model.AlbumPatch) (*model.Album, error)

	// Membership operations

	// ListMembers resolves member IDs to users, skipping IDs that no longer resolve.
	// Returns ErrAlbumNotFound when the album does not exist.
	ListMembers(ctx context.Context, albumID string) ([]*model.User, error)

	// AddMember appends userID and returns the resolved user (nil if unknown).
	// Returns ErrAlbumNotFound or ErrAlreadyMember.
	AddMember(ctx context.Context, albumID, userID string) (*model.User, error)

	// RemoveMember removes userID from the album.
	// Returns ErrAlbumNotFound, ErrRemoveCreator or ErrNotMember.
	RemoveMember(ctx context.Context, albumID, userID string) error

	// Photo operations

	// ListPhotos returns an album's photos in upload order; empty for unknown albums.
	ListPhotos(ctx context.Context, albumID string) ([]*model.Photo, error)

	// CreatePhoto appends the photo and increments the owning album's count.
	CreatePhoto(ctx context.Context, photo *model.Photo) error

	// DeletePhoto removes the photo and decrements the album's count, clamped at zero.
	// Returns ErrPhotoNotFound when the photo is not in that album.
	DeletePhoto(ctx context.Context, albumID, photoID string) error

	// Close releases any underlying resources.
	Close() error
}

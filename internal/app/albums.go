package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alitto/pond/v2"

	"fotohogar/internal/fotohogar"
	"fotohogar/internal/fs"
	"fotohogar/internal/model"
)

// AlbumDetail is everything the album page shows.
type AlbumDetail struct {
	Album   *model.Album   `json:"album"`
	Members []*model.User  `json:"members"`
	Photos  []*model.Photo `json:"photos"`
}

// ListAlbums fetches every album into the album store.
func (a *App) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	if _, err := a.CurrentUser(); err != nil {
		return nil, err
	}
	albums, err := a.service.ListAlbums(ctx)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.albums.SetAlbums(albums)
	return albums, nil
}

// ShowAlbum loads the album, its members and its photos concurrently. Only a
// failure to load the album itself is returned; members and photos that
// cannot be loaded are shown empty.
func (a *App) ShowAlbum(ctx context.Context, albumID string) (*AlbumDetail, error) {
	if _, err := a.CurrentUser(); err != nil {
		return nil, err
	}

	pool := pond.NewPool(3, pond.WithContext(ctx))
	defer pool.StopAndWait()

	detail := &AlbumDetail{Members: []*model.User{}, Photos: []*model.Photo{}}
	group := pool.NewGroup()

	group.SubmitErr(func() error {
		album, err := a.service.GetAlbum(ctx, albumID)
		if err != nil {
			return err
		}
		detail.Album = album
		return nil
	})
	group.Submit(func() {
		members, err := a.service.ListMembers(ctx, albumID)
		if err != nil {
			a.logger.Warn("loading album members", "album", albumID, "error", err)
			return
		}
		detail.Members = members
	})
	group.Submit(func() {
		photos, err := a.service.ListPhotos(ctx, albumID)
		if err != nil {
			a.logger.Warn("loading album photos", "album", albumID, "error", err)
			return
		}
		detail.Photos = photos
	})

	if err := group.Wait(); err != nil {
		return nil, a.op.Record(err)
	}

	a.albums.SetCurrentAlbum(detail.Album)
	a.albums.SetPhotos(detail.Photos)
	return detail, nil
}

// CreateAlbum creates an album owned by the logged-in user.
func (a *App) CreateAlbum(ctx context.Context, in model.NewAlbum) (*model.Album, error) {
	user, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, a.op.Record(errors.New("album title is required"))
	}

	in.CreatedBy = user.ID
	album, err := a.service.CreateAlbum(ctx, in)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.albums.AddAlbum(album)
	return album, nil
}

// EditAlbum applies patch to the album.
func (a *App) EditAlbum(ctx context.Context, albumID string, patch model.AlbumPatch) (*model.Album, error) {
	if _, err := a.CurrentUser(); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, a.op.Record(errors.New("nothing to update"))
	}

	album, err := a.service.UpdateAlbum(ctx, albumID, patch)
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.albums.UpdateAlbum(albumID, patch)
	return album, nil
}

// UploadPhoto adds a photo to the album. source is either a URL (http, https
// or data) or a path to a local image file, which is embedded as a data URL.
func (a *App) UploadPhoto(ctx context.Context, albumID, source, caption string) (*model.Photo, error) {
	user, err := a.CurrentUser()
	if err != nil {
		return nil, err
	}

	url := source
	if !isURL(source) {
		if url, err = fs.ReadDataURL(source); err != nil {
			return nil, a.op.Record(fmt.Errorf("reading photo: %w", err))
		}
	}

	photo, err := a.service.UploadPhoto(ctx, albumID, model.NewPhoto{
		URL:        url,
		Caption:    caption,
		UploadedBy: user.ID,
	})
	if err != nil {
		return nil, a.op.Record(err)
	}
	a.albums.AddPhoto(photo)
	return photo, nil
}

func isURL(s string) bool {
	for _, prefix := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// DeletePhoto removes a photo from the album.
func (a *App) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	if _, err := a.CurrentUser(); err != nil {
		return err
	}
	if err := a.service.DeletePhoto(ctx, albumID, photoID); err != nil {
		return a.op.Record(err)
	}
	a.albums.RemovePhoto(photoID)
	return nil
}

// AddMember adds the user registered under email to the album.
func (a *App) AddMember(ctx context.Context, albumID, email string) (*model.User, error) {
	if _, err := a.CurrentUser(); err != nil {
		return nil, err
	}
	user, err := a.service.AddMemberByEmail(ctx, albumID, email)
	return user, a.op.Record(err)
}

// RemoveMember removes userID from the album. Only the album's creator may
// remove members, and the creator cannot be removed.
func (a *App) RemoveMember(ctx context.Context, albumID, userID string) error {
	current, err := a.CurrentUser()
	if err != nil {
		return err
	}

	album, err := a.service.GetAlbum(ctx, albumID)
	if err != nil {
		return a.op.Record(err)
	}
	if album.CreatedBy != current.ID {
		return a.op.Record(fotohogar.ErrNotAlbumAuthor)
	}

	return a.op.Record(a.service.RemoveMember(ctx, albumID, userID))
}

package fotohogar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fotohogar/internal/model"
)

// DefaultCoverImage is used for albums created without a cover.
const DefaultCoverImage = "https://images.unsplash.com/photo-1542831371-29b0f74f9713?w=400&h=300&fit=crop"

// Latency is the simulated network delay paid before each operation runs.
type Latency struct {
	Default time.Duration
	Upload  time.Duration
}

// DefaultLatency matches the delays of the hosted API the service stands in for.
func DefaultLatency() Latency {
	return Latency{Default: 500 * time.Millisecond, Upload: time.Second}
}

// Service is the album data service. It stands in for a remote API: every
// call waits for its simulated latency and then runs against the Repository.
// Expected domain failures (ErrNotFound, ErrConflict, ErrForbidden) are
// returned unchanged; anything else, including panics, becomes ErrInternal.
type Service struct {
	repo    Repository
	latency Latency
	logger  Logger
	clock   Clock
	idgen   IDGenerator
}

// NewService creates a Service with the provided dependencies.
func NewService(repo Repository, latency Latency, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		repo:    repo,
		latency: latency,
		logger:  logger,
		clock:   clock,
		idgen:   idgen,
	}
}

// call waits for d, runs fn and classifies its failure. failMsg is the
// user-facing message used when the failure is unexpected.
func call[T any](ctx context.Context, s *Service, op, failMsg string, d time.Duration, fn func() (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			result = zero
			err = InternalError(failMsg, fmt.Errorf("panic: %v", r))
			s.logger.Error("operation panicked", "op", op, "panic", r)
		}
	}()

	if err := wait(ctx, d); err != nil {
		var zero T
		return zero, InternalError(failMsg, err)
	}

	result, err = fn()
	if err != nil {
		var domainErr *Error
		if errors.As(err, &domainErr) {
			s.logger.Debug("operation rejected", "op", op, "reason", err.Error())
			return result, err
		}
		s.logger.Error("operation failed", "op", op, "error", err)
		var zero T
		return zero, InternalError(failMsg, err)
	}
	return result, nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ListUsers returns every user.
func (s *Service) ListUsers(ctx context.Context) ([]*model.User, error) {
	return call(ctx, s, "ListUsers", "failed to fetch users", s.latency.Default, func() ([]*model.User, error) {
		return s.repo.ListUsers(ctx)
	})
}

// ListAlbums returns every album.
func (s *Service) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	return call(ctx, s, "ListAlbums", "failed to fetch albums", s.latency.Default, func() ([]*model.Album, error) {
		return s.repo.ListAlbums(ctx)
	})
}

// GetAlbum returns the album with the given ID or ErrAlbumNotFound.
func (s *Service) GetAlbum(ctx context.Context, albumID string) (*model.Album, error) {
	return call(ctx, s, "GetAlbum", "failed to fetch album", s.latency.Default, func() (*model.Album, error) {
		album, err := s.repo.FindAlbum(ctx, albumID)
		if err != nil {
			return nil, err
		}
		if album == nil {
			return nil, ErrAlbumNotFound
		}
		return album, nil
	})
}

// ListPhotos returns the album's photos. Unknown albums yield an empty slice.
func (s *Service) ListPhotos(ctx context.Context, albumID string) ([]*model.Photo, error) {
	return call(ctx, s, "ListPhotos", "failed to fetch photos", s.latency.Default, func() ([]*model.Photo, error) {
		photos, err := s.repo.ListPhotos(ctx, albumID)
		if err != nil {
			return nil, err
		}
		if photos == nil {
			photos = []*model.Photo{}
		}
		return photos, nil
	})
}

// ListMembers resolves the album's members to users.
func (s *Service) ListMembers(ctx context.Context, albumID string) ([]*model.User, error) {
	return call(ctx, s, "ListMembers", "failed to fetch members", s.latency.Default, func() ([]*model.User, error) {
		return s.repo.ListMembers(ctx, albumID)
	})
}

// CreateAlbum assigns an ID and creation time, starts the photo count at zero
// and makes sure the creator is a member.
func (s *Service) CreateAlbum(ctx context.Context, in model.NewAlbum) (*model.Album, error) {
	return call(ctx, s, "CreateAlbum", "failed to create album", s.latency.Default, func() (*model.Album, error) {
		album := &model.Album{
			ID:          s.idgen.New(),
			Title:       in.Title,
			Description: in.Description,
			CoverImage:  in.CoverImage,
			CreatedBy:   in.CreatedBy,
			Members:     membersWithCreator(in.CreatedBy, in.Members),
			CreatedAt:   s.clock.Now().UTC(),
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			PhotoCount:  0,
		}
		if album.CoverImage == "" {
			album.CoverImage = DefaultCoverImage
		}

		if err := s.repo.CreateAlbum(ctx, album); err != nil {
			return nil, fmt.Errorf("creating album: %w", err)
		}

		s.logger.Info("album created", "id", album.ID, "title", album.Title)
		return album, nil
	})
}

// membersWithCreator returns members with creator first and duplicates removed.
func membersWithCreator(creator string, members []string) []string {
	result := make([]string, 0, len(members)+1)
	seen := make(map[string]bool, len(members)+1)
	if creator != "" {
		result = append(result, creator)
		seen[creator] = true
	}
	for _, m := range members {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		result = append(result, m)
	}
	return result
}

// UpdateAlbum merges patch over the stored album and returns the result.
func (s *Service) UpdateAlbum(ctx context.Context, albumID string, patch model.AlbumPatch) (*model.Album, error) {
	return call(ctx, s, "UpdateAlbum", "failed to update album", s.latency.Default, func() (*model.Album, error) {
		album, err := s.repo.UpdateAlbum(ctx, albumID, patch)
		if err != nil {
			return nil, err
		}
		s.logger.Info("album updated", "id", albumID)
		return album, nil
	})
}

// UploadPhoto stores a new photo in the album. It pays the upload latency.
func (s *Service) UploadPhoto(ctx context.Context, albumID string, in model.NewPhoto) (*model.Photo, error) {
	return call(ctx, s, "UploadPhoto", "failed to upload photo", s.latency.Upload, func() (*model.Photo, error) {
		photo := &model.Photo{
			ID:         s.idgen.New(),
			AlbumID:    albumID,
			URL:        in.URL,
			Thumbnail:  in.Thumbnail,
			UploadedBy: in.UploadedBy,
			UploadedAt: s.clock.Now().UTC(),
			Caption:    in.Caption,
		}
		if photo.Thumbnail == "" {
			photo.Thumbnail = photo.URL
		}

		if err := s.repo.CreatePhoto(ctx, photo); err != nil {
			return nil, fmt.Errorf("storing photo: %w", err)
		}

		s.logger.Info("photo uploaded", "album", albumID, "id", photo.ID)
		return photo, nil
	})
}

// DeletePhoto removes a photo from the album.
func (s *Service) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	_, err := call(ctx, s, "DeletePhoto", "failed to delete photo", s.latency.Default, func() (struct{}, error) {
		if err := s.repo.DeletePhoto(ctx, albumID, photoID); err != nil {
			return struct{}{}, err
		}
		s.logger.Info("photo deleted", "album", albumID, "id", photoID)
		return struct{}{}, nil
	})
	return err
}

// AddMember adds userID to the album and returns the resolved user.
func (s *Service) AddMember(ctx context.Context, albumID, userID string) (*model.User, error) {
	return call(ctx, s, "AddMember", "failed to add member", s.latency.Default, func() (*model.User, error) {
		user, err := s.repo.AddMember(ctx, albumID, userID)
		if err != nil {
			return nil, err
		}
		s.logger.Info("member added", "album", albumID, "user", userID)
		return user, nil
	})
}

// AddMemberByEmail looks the user up by email (case-insensitive) and adds them.
func (s *Service) AddMemberByEmail(ctx context.Context, albumID, email string) (*model.User, error) {
	return call(ctx, s, "AddMemberByEmail", "failed to add member", s.latency.Default, func() (*model.User, error) {
		user, err := s.repo.FindUserByEmail(ctx, NormalizeEmail(email))
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		if _, err := s.repo.AddMember(ctx, albumID, user.ID); err != nil {
			return nil, err
		}
		s.logger.Info("member added", "album", albumID, "user", user.ID)
		return user, nil
	})
}

// RemoveMember removes userID from the album. The creator cannot be removed.
func (s *Service) RemoveMember(ctx context.Context, albumID, userID string) error {
	_, err := call(ctx, s, "RemoveMember", "failed to remove member", s.latency.Default, func() (struct{}, error) {
		if err := s.repo.RemoveMember(ctx, albumID, userID); err != nil {
			return struct{}{}, err
		}
		s.logger.Info("member removed", "album", albumID, "user", userID)
		return struct{}{}, nil
	})
	return err
}

// NormalizeEmail trims and lower-cases an email for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

package model

import "time"

// User is a family member who can log in and belong to albums.
// Users are immutable once created.
type User struct {
	ID       string `json:"id" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Lastname string `json:"lastname" toml:"lastname"`
	Email    string `json:"email" toml:"email"`       // unique, matched case-insensitively
	Password string `json:"password,omitempty" toml:"password"` // SHA-256 hex or bcrypt digest
	Avatar   string `json:"avatar" toml:"avatar"`
}

// FullName returns "Name Lastname".
func (u *User) FullName() string {
	if u.Lastname == "" {
		return u.Name
	}
	return u.Name + " " + u.Lastname
}

// Public returns a copy without the password digest.
func (u *User) Public() *User {
	c := *u
	c.Password = ""
	return &c
}

// Album is a named collection of photos shared among its members.
type Album struct {
	ID          string    `json:"id" toml:"id"`
	Title       string    `json:"title" toml:"title"`
	Description string    `json:"description" toml:"description"`
	CoverImage  string    `json:"coverImage" toml:"cover_image"`
	CreatedBy   string    `json:"createdBy" toml:"created_by"` // always present in Members
	Members     []string  `json:"members" toml:"members"`
	CreatedAt   time.Time `json:"createdAt" toml:"created_at"`
	StartDate   string    `json:"startDate,omitempty" toml:"start_date"` // YYYY-MM-DD
	EndDate     string    `json:"endDate,omitempty" toml:"end_date"`     // YYYY-MM-DD
	PhotoCount  int       `json:"photoCount" toml:"photo_count"`
}

// HasMember reports whether userID is in the album's member list.
func (a *Album) HasMember(userID string) bool {
	for _, m := range a.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers cannot mutate repository state.
func (a *Album) Clone() *Album {
	c := *a
	c.Members = append([]string(nil), a.Members...)
	return &c
}

// Photo belongs to exactly one album. AlbumID never changes after creation.
type Photo struct {
	ID         string    `json:"id" toml:"id"`
	AlbumID    string    `json:"albumId" toml:"album_id"`
	URL        string    `json:"url" toml:"url"`
	Thumbnail  string    `json:"thumbnail" toml:"thumbnail"`
	UploadedBy string    `json:"uploadedBy" toml:"uploaded_by"`
	UploadedAt time.Time `json:"uploadedAt" toml:"uploaded_at"`
	Caption    string    `json:"caption,omitempty" toml:"caption"`
}

// NewAlbum holds the caller-supplied fields for album creation.
type NewAlbum struct {
	Title       string
	Description string
	CoverImage  string
	CreatedBy   string
	Members     []string
	StartDate   string
	EndDate     string
}

// AlbumPatch is a shallow field-level update. Nil fields are left untouched.
type AlbumPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
	StartDate   *string `json:"startDate,omitempty"`
	EndDate     *string `json:"endDate,omitempty"`
}

// Empty reports whether the patch supplies no fields.
func (p AlbumPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.CoverImage == nil &&
		p.StartDate == nil && p.EndDate == nil
}

// Apply merges the supplied fields into album in place.
func (p AlbumPatch) Apply(album *Album) {
	if p.Title != nil {
		album.Title = *p.Title
	}
	if p.Description != nil {
		album.Description = *p.Description
	}
	if p.CoverImage != nil {
		album.CoverImage = *p.CoverImage
	}
	if p.StartDate != nil {
		album.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		album.EndDate = *p.EndDate
	}
}

// NewPhoto holds the caller-supplied fields for a photo upload.
type NewPhoto struct {
	URL        string
	Thumbnail  string
	Caption    string
	UploadedBy string
}

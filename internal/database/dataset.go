package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"fotohogar/internal/model"
)

// Dataset is the initial content loaded into an empty repository.
// It can be read from a TOML file with [[users]], [[albums]] and [[photos]] tables.
type Dataset struct {
	Users  []*model.User  `toml:"users"`
	Albums []*model.Album `toml:"albums"`
	Photos []*model.Photo `toml:"photos"`
}

// ReadDataset decodes and validates a dataset file.
func ReadDataset(path string) (*Dataset, error) {
	var ds Dataset
	if _, err := toml.DecodeFile(path, &ds); err != nil {
		return nil, fmt.Errorf("decoding dataset %s: %w", path, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", path, err)
	}
	return &ds, nil
}

// Validate checks the invariants a repository relies on: unique user IDs and
// emails, unique album and photo IDs, and every creator being a member.
func (d *Dataset) Validate() error {
	userIDs := make(map[string]bool)
	emails := make(map[string]bool)
	for _, u := range d.Users {
		if u.ID == "" {
			return fmt.Errorf("user with email %q has no id", u.Email)
		}
		if userIDs[u.ID] {
			return fmt.Errorf("duplicate user id %q", u.ID)
		}
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if emails[email] {
			return fmt.Errorf("duplicate user email %q", u.Email)
		}
		userIDs[u.ID] = true
		emails[email] = true
	}

	albumIDs := make(map[string]bool)
	for _, a := range d.Albums {
		if a.ID == "" {
			return fmt.Errorf("album %q has no id", a.Title)
		}
		if albumIDs[a.ID] {
			return fmt.Errorf("duplicate album id %q", a.ID)
		}
		if !a.HasMember(a.CreatedBy) {
			return fmt.Errorf("album %q: creator %q is not a member", a.ID, a.CreatedBy)
		}
		albumIDs[a.ID] = true
	}

	photoIDs := make(map[string]bool)
	for _, p := range d.Photos {
		if photoIDs[p.ID] {
			return fmt.Errorf("duplicate photo id %q", p.ID)
		}
		photoIDs[p.ID] = true
	}
	return nil
}

// photoCounts counts the dataset's photos per album. Loaders use it instead of
// the albums' declared counts so the stored count always matches the photos.
func (d *Dataset) photoCounts() map[string]int {
	counts := make(map[string]int)
	for _, p := range d.Photos {
		counts[p.AlbumID]++
	}
	return counts
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func moment(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

// sha256 of "123456"
const seedPassword = "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92"

const unsplash = "https://images.unsplash.com/"

func seedPhoto(id, albumID, image, uploadedBy, uploadedAt, caption string) *model.Photo {
	return &model.Photo{
		ID:         id,
		AlbumID:    albumID,
		URL:        unsplash + image + "?w=800&h=600&fit=crop",
		Thumbnail:  unsplash + image + "?w=300&h=200&fit=crop",
		UploadedBy: uploadedBy,
		UploadedAt: moment(uploadedAt),
		Caption:    caption,
	}
}

// SeedDataset returns the built-in demo family: two users, four albums and
// their photos. Album photo counts are derived from the photos on load.
func SeedDataset() *Dataset {
	return &Dataset{
		Users: []*model.User{
			{
				ID:       "1",
				Name:     "Juan",
				Lastname: "Pérez",
				Email:    "juan@fotohogar.com",
				Password: seedPassword,
				Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=Juan",
			},
			{
				ID:       "2",
				Name:     "María",
				Lastname: "García",
				Email:    "maria@fotohogar.com",
				Password: seedPassword,
				Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=Maria",
			},
		},
		Albums: []*model.Album{
			{
				ID:          "1",
				Title:       "Vacaciones en la Playa 2024",
				Description: "Nuestro viaje familiar a Máncora",
				CoverImage:  unsplash + "photo-1507525428034-b723cf961d3e?w=400&h=300&fit=crop",
				CreatedBy:   "1",
				Members:     []string{"1", "2"},
				CreatedAt:   day("2024-01-15"),
				StartDate:   "2024-01-15",
				EndDate:     "2024-01-22",
			},
			{
				ID:          "2",
				Title:       "Cumpleaños de Mamá",
				Description: "Celebración del cumpleaños #60",
				CoverImage:  unsplash + "photo-1464349095431-e9a21285b5f3?w=400&h=300&fit=crop",
				CreatedBy:   "2",
				Members:     []string{"1", "2"},
				CreatedAt:   day("2024-02-20"),
				StartDate:   "2024-02-20",
				EndDate:     "2024-02-20",
			},
			{
				ID:          "3",
				Title:       "Navidad 2023",
				Description: "Reunión familiar de fin de año",
				CoverImage:  unsplash + "photo-1512389142860-9c449e58a543?w=400&h=300&fit=crop",
				CreatedBy:   "1",
				Members:     []string{"1", "2"},
				CreatedAt:   day("2023-12-25"),
				StartDate:   "2023-12-24",
				EndDate:     "2023-12-26",
			},
			{
				ID:          "4",
				Title:       "Paseo al Parque",
				Description: "Día de picnic en familia",
				CoverImage:  unsplash + "photo-1441974231531-c6227db76b6e?w=400&h=300&fit=crop",
				CreatedBy:   "1",
				Members:     []string{"1", "2"},
				CreatedAt:   day("2024-03-10"),
				StartDate:   "2024-03-10",
				EndDate:     "2024-03-10",
			},
		},
		Photos: []*model.Photo{
			seedPhoto("p1", "1", "photo-1505142468610-359e7d316be0", "1", "2024-01-15T10:30:00", "Llegada a la playa"),
			seedPhoto("p2", "1", "photo-1506953823976-52e1fdc0149a", "2", "2024-01-15T12:00:00", "Vista al mar"),
			seedPhoto("p3", "1", "photo-1559827260-dc66d52bef19", "1", "2024-01-15T14:30:00", "Atardecer"),
			seedPhoto("p4", "1", "photo-1473496169904-658ba7c44d8a", "2", "2024-01-16T09:00:00", "Palmeras"),
			seedPhoto("p5", "1", "photo-1507525428034-b723cf961d3e", "1", "2024-01-16T11:30:00", "Olas del mar"),
			seedPhoto("p6", "1", "photo-1476673160081-cf065607f449", "2", "2024-01-16T16:00:00", "Puesta de sol"),
			seedPhoto("p7", "1", "photo-1519046904884-53103b34b206", "1", "2024-01-17T08:00:00", "Playa solitaria"),
			seedPhoto("p8", "1", "photo-1510414842594-a61c69b5ae57", "2", "2024-01-17T10:30:00", "Último día"),
			seedPhoto("p9", "2", "photo-1558636508-e0db3814bd1d", "1", "2024-02-20T15:00:00", "El pastel"),
			seedPhoto("p10", "2", "photo-1464349095431-e9a21285b5f3", "2", "2024-02-20T15:30:00", "Soplar las velas"),
			seedPhoto("p11", "2", "photo-1530103862676-de8c9debad1d", "1", "2024-02-20T16:00:00", "Decoración"),
			seedPhoto("p12", "2", "photo-1527529482837-4698179dc6ce", "2", "2024-02-20T17:00:00", "Los regalos"),
			seedPhoto("p13", "3", "photo-1512389142860-9c449e58a543", "1", "2023-12-25T20:00:00", "La cena navideña"),
			seedPhoto("p14", "3", "photo-1482517967863-00e15c9b44be", "2", "2023-12-25T21:00:00", "El árbol decorado"),
			seedPhoto("p15", "4", "photo-1441974231531-c6227db76b6e", "1", "2024-03-10T11:00:00", "Naturaleza"),
			seedPhoto("p16", "4", "photo-1470071459604-3b5ec3a7fe05", "2", "2024-03-10T12:00:00", "Montañas"),
		},
	}
}

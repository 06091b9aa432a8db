package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fotohogar/internal/database/migrations"
	"fotohogar/internal/fotohogar"
	"fotohogar/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteRepository implements fotohogar.Repository on SQLite.
// Multi-step mutations run in a transaction.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

// NewSQLiteRepository opens the database at path, applies pending migrations
// and loads ds when the database holds no users yet.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteRepository(ctx context.Context, path string, ds *Dataset) (*SQLiteRepository, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, err
	}

	r := &SQLiteRepository{db: db, path: path}
	if ds != nil {
		if err := r.loadIfEmpty(ctx, ds); err != nil {
			db.Close()
			return nil, err
		}
	}
	return r, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every pooled connection to ":memory:" would get its own empty database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// SQLite default is OFF
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// loadIfEmpty inserts ds in a single transaction unless users already exist.
func (r *SQLiteRepository) loadIfEmpty(ctx context.Context, ds *Dataset) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n); err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if n > 0 {
		return nil
	}

	for _, u := range ds.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, name, lastname, email, password, avatar) VALUES (?, ?, ?, ?, ?, ?)",
			u.ID, u.Name, u.Lastname, u.Email, u.Password, u.Avatar)
		if err != nil {
			return fmt.Errorf("inserting user %s: %w", u.ID, err)
		}
	}

	counts := ds.photoCounts()
	for _, a := range ds.Albums {
		c := a.Clone()
		c.PhotoCount = counts[c.ID]
		if err := insertAlbum(ctx, tx, c); err != nil {
			return err
		}
	}

	for _, p := range ds.Photos {
		if err := insertPhoto(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAlbum(ctx context.Context, ex execer, a *model.Album) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO albums (id, title, description, cover_image, created_by, created_at, start_date, end_date, photo_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Title, a.Description, a.CoverImage, a.CreatedBy, a.CreatedAt.UTC(), a.StartDate, a.EndDate, a.PhotoCount)
	if err != nil {
		return fmt.Errorf("inserting album %s: %w", a.ID, err)
	}
	for i, m := range a.Members {
		_, err := ex.ExecContext(ctx,
			"INSERT INTO album_members (album_id, user_id, position) VALUES (?, ?, ?)", a.ID, m, i)
		if err != nil {
			return fmt.Errorf("inserting member %s of album %s: %w", m, a.ID, err)
		}
	}
	return nil
}

func insertPhoto(ctx context.Context, ex execer, p *model.Photo) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO photos (id, album_id, url, thumbnail, uploaded_by, uploaded_at, caption)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.AlbumID, p.URL, p.Thumbnail, p.UploadedBy, p.UploadedAt.UTC(), p.Caption)
	if err != nil {
		return fmt.Errorf("inserting photo %s: %w", p.ID, err)
	}
	return nil
}

// User operations

const userColumns = "id, name, lastname, email, password, avatar"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Name, &u.Lastname, &u.Email, &u.Password, &u.Avatar); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY rowid")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE lower(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding user by email: %w", err)
	}
	return u, nil
}

// Album operations

const albumColumns = "id, title, description, cover_image, created_by, created_at, start_date, end_date, photo_count"

func scanAlbum(row rowScanner) (*model.Album, error) {
	var a model.Album
	err := row.Scan(&a.ID, &a.Title, &a.Description, &a.CoverImage, &a.CreatedBy,
		&a.CreatedAt, &a.StartDate, &a.EndDate, &a.PhotoCount)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadMemberIDs(ctx context.Context, q queryer, albumID string) ([]string, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT user_id FROM album_members WHERE album_id = ? ORDER BY position", albumID)
	if err != nil {
		return nil, fmt.Errorf("loading members of album %s: %w", albumID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) ListAlbums(ctx context.Context) ([]*model.Album, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+albumColumns+" FROM albums ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}

	var albums []*model.Album
	for rows.Next() {
		a, err := scanAlbum(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning album: %w", err)
		}
		albums = append(albums, a)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("listing albums: %w", err)
	}

	// Members are loaded after the album cursor is closed; an in-memory
	// database has a single connection.
	for _, a := range albums {
		if a.Members, err = loadMemberIDs(ctx, r.db, a.ID); err != nil {
			return nil, err
		}
	}
	return albums, nil
}

func (r *SQLiteRepository) FindAlbum(ctx context.Context, id string) (*model.Album, error) {
	a, err := scanAlbum(r.db.QueryRowContext(ctx, "SELECT "+albumColumns+" FROM albums WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("finding album: %w", err)
	}
	if a.Members, err = loadMemberIDs(ctx, r.db, a.ID); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *SQLiteRepository) CreateAlbum(ctx context.Context, album *model.Album) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertAlbum(ctx, tx, album); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateAlbum(ctx context.Context, id string, patch model.AlbumPatch) (*model.Album, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	album, err := scanAlbum(tx.QueryRowContext(ctx, "SELECT "+albumColumns+" FROM albums WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fotohogar.ErrAlbumNotFound
		}
		return nil, fmt.Errorf("finding album: %w", err)
	}

	patch.Apply(album)
	_, err = tx.ExecContext(ctx,
		`UPDATE albums SET title = ?, description = ?, cover_image = ?, start_date = ?, end_date = ?
		 WHERE id = ?`,
		album.Title, album.Description, album.CoverImage, album.StartDate, album.EndDate, id)
	if err != nil {
		return nil, fmt.Errorf("updating album: %w", err)
	}

	if album.Members, err = loadMemberIDs(ctx, tx, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return album, nil
}

// albumExists reports whether the album is present, within tx.
func albumExists(ctx context.Context, tx *sql.Tx, albumID string) (createdBy string, ok bool, err error) {
	err = tx.QueryRowContext(ctx, "SELECT created_by FROM albums WHERE id = ?", albumID).Scan(&createdBy)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("finding album: %w", err)
	}
	return createdBy, true, nil
}

// Membership operations

func (r *SQLiteRepository) ListMembers(ctx context.Context, albumID string) ([]*model.User, error) {
	album, err := r.FindAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return nil, fotohogar.ErrAlbumNotFound
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.lastname, u.email, u.password, u.avatar
		 FROM album_members m JOIN users u ON u.id = m.user_id
		 WHERE m.album_id = ? ORDER BY m.position`, albumID)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	members := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	return members, nil
}

func (r *SQLiteRepository) AddMember(ctx context.Context, albumID, userID string) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, ok, err := albumExists(ctx, tx, albumID); err != nil {
		return nil, err
	} else if !ok {
		return nil, fotohogar.ErrAlbumNotFound
	}

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM album_members WHERE album_id = ? AND user_id = ?", albumID, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking membership: %w", err)
	}
	if exists > 0 {
		return nil, fotohogar.ErrAlreadyMember
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO album_members (album_id, user_id, position)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM album_members WHERE album_id = ?))`,
		albumID, userID, albumID)
	if err != nil {
		return nil, fmt.Errorf("adding member: %w", err)
	}

	user, err := scanUser(tx.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", userID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return user, nil
}

func (r *SQLiteRepository) RemoveMember(ctx context.Context, albumID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	createdBy, ok, err := albumExists(ctx, tx, albumID)
	if err != nil {
		return err
	}
	if !ok {
		return fotohogar.ErrAlbumNotFound
	}
	if createdBy == userID {
		return fotohogar.ErrRemoveCreator
	}

	res, err := tx.ExecContext(ctx,
		"DELETE FROM album_members WHERE album_id = ? AND user_id = ?", albumID, userID)
	if err != nil {
		return fmt.Errorf("removing member: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("removing member: %w", err)
	} else if n == 0 {
		return fotohogar.ErrNotMember
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Photo operations

func (r *SQLiteRepository) ListPhotos(ctx context.Context, albumID string) ([]*model.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, album_id, url, thumbnail, uploaded_by, uploaded_at, caption
		 FROM photos WHERE album_id = ? ORDER BY seq`, albumID)
	if err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	defer rows.Close()

	photos := []*model.Photo{}
	for rows.Next() {
		var p model.Photo
		if err := rows.Scan(&p.ID, &p.AlbumID, &p.URL, &p.Thumbnail, &p.UploadedBy, &p.UploadedAt, &p.Caption); err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing photos: %w", err)
	}
	return photos, nil
}

func (r *SQLiteRepository) CreatePhoto(ctx context.Context, photo *model.Photo) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertPhoto(ctx, tx, photo); err != nil {
		return err
	}
	// No row is updated when the album is unknown; the photo is still stored.
	if _, err := tx.ExecContext(ctx,
		"UPDATE albums SET photo_count = photo_count + 1 WHERE id = ?", photo.AlbumID); err != nil {
		return fmt.Errorf("incrementing photo count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeletePhoto(ctx context.Context, albumID, photoID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "DELETE FROM photos WHERE id = ? AND album_id = ?", photoID, albumID)
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	} else if n == 0 {
		return fotohogar.ErrPhotoNotFound
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE albums SET photo_count = MAX(photo_count - 1, 0) WHERE id = ?", albumID); err != nil {
		return fmt.Errorf("decrementing photo count: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (r *SQLiteRepository) Path() string {
	return r.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (r *SQLiteRepository) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(r.db)
}

// Close closes the database connection.
func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteRepository implements fotohogar.Repository
var _ fotohogar.Repository = (*SQLiteRepository)(nil)

// Package content is the read path over the site's content database:
// galleries, products, and projects with their localized fields, plus the
// archive of contact submissions. Writes happen through an external admin
// tool; this package only creates schema and reads documents.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atlasgroupe/siteserv/gallery"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("document not found")

// Localized holds one text field in the site's three languages.
type Localized struct {
	EN string `json:"en"`
	FR string `json:"fr"`
	AR string `json:"ar"`
}

// Pick returns the text for the given language code, falling back through
// English, French, and Arabic when the requested one is empty.
func (l Localized) Pick(code string) string {
	var first string
	switch code {
	case "fr":
		first = l.FR
	case "ar":
		first = l.AR
	default:
		first = l.EN
	}
	for _, s := range []string{first, l.EN, l.FR, l.AR} {
		if s != "" {
			return s
		}
	}
	return ""
}

// Gallery is a named, ordered media collection.
type Gallery struct {
	Key   string              `json:"key"`
	Title Localized           `json:"title"`
	Media []gallery.MediaItem `json:"media"`
}

// Product is one catalog entry with a single illustration image.
type Product struct {
	Key         string    `json:"key"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
}

// Project is a realized or ongoing construction project. Its media lives
// in a gallery referenced by GalleryKey.
type Project struct {
	Key         string    `json:"key"`
	Location    string    `json:"location"`
	Year        int       `json:"year"`
	CoverURL    string    `json:"coverUrl"`
	GalleryKey  string    `json:"galleryKey"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
}

// Store reads site content from the database. It implements
// gallery.Fetcher for the media viewer.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// InitializeSchema creates the content tables if they don't exist.
func InitializeSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS galleries (
			key TEXT PRIMARY KEY,
			title_en TEXT,
			title_fr TEXT,
			title_ar TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS gallery_media (
			gallery_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			media_id TEXT NOT NULL,
			url TEXT NOT NULL,
			type TEXT NOT NULL,
			PRIMARY KEY (gallery_key, position)
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			key TEXT PRIMARY KEY,
			category TEXT,
			image_url TEXT,
			name_en TEXT, name_fr TEXT, name_ar TEXT,
			desc_en TEXT, desc_fr TEXT, desc_ar TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			key TEXT PRIMARY KEY,
			location TEXT,
			year INTEGER,
			cover_url TEXT,
			gallery_key TEXT,
			name_en TEXT, name_fr TEXT, name_ar TEXT,
			desc_en TEXT, desc_fr TEXT, desc_ar TEXT,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			company_name TEXT,
			email TEXT NOT NULL,
			phone_number TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			sent_at INTEGER
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("failed to create content table: %w", err)
		}
	}
	return nil
}

// EnsureIndexes creates the recommended content indexes if the related
// tables exist. Best effort at startup.
func EnsureIndexes(db *sql.DB) error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_gallery_media_key ON gallery_media(gallery_key, position)",
		"CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)",
		"CREATE INDEX IF NOT EXISTS idx_projects_year ON projects(year)",
		"CREATE INDEX IF NOT EXISTS idx_messages_created ON messages(created_at)",
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating index failed: %w", err)
		}
	}
	return nil
}

// FetchMedia returns the full ordered media list for a gallery in one
// query. A missing gallery is ErrNotFound; an existing gallery with no
// rows returns an empty list.
func (s *Store) FetchMedia(ctx context.Context, collection string) ([]gallery.MediaItem, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM galleries WHERE key = ?", collection).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking gallery %q: %w", collection, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("gallery %q: %w", collection, ErrNotFound)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT media_id, url, type
		FROM gallery_media
		WHERE gallery_key = ?
		ORDER BY position`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying media for %q: %w", collection, err)
	}
	defer rows.Close()

	var items []gallery.MediaItem
	for rows.Next() {
		var it gallery.MediaItem
		var typ string
		if err := rows.Scan(&it.ID, &it.URL, &typ); err != nil {
			return nil, err
		}
		it.Type = gallery.ItemType(typ)
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetGallery returns a gallery document with its media.
func (s *Store) GetGallery(ctx context.Context, key string) (*Gallery, error) {
	g := &Gallery{Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT title_en, title_fr, title_ar FROM galleries WHERE key = ?`, key).
		Scan(&g.Title.EN, &g.Title.FR, &g.Title.AR)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("gallery %q: %w", key, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	g.Media, err = s.FetchMedia(ctx, key)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListGalleries returns all galleries without their media, newest first.
func (s *Store) ListGalleries(ctx context.Context) ([]Gallery, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, title_en, title_fr, title_ar
		FROM galleries ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gallery
	for rows.Next() {
		var g Gallery
		if err := rows.Scan(&g.Key, &g.Title.EN, &g.Title.FR, &g.Title.AR); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListProducts returns the catalog ordered by category then key.
func (s *Store) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, category, image_url,
		       name_en, name_fr, name_ar,
		       desc_en, desc_fr, desc_ar
		FROM products ORDER BY category, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Key, &p.Category, &p.ImageURL,
			&p.Name.EN, &p.Name.FR, &p.Name.AR,
			&p.Description.EN, &p.Description.FR, &p.Description.AR); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProduct returns one catalog entry.
func (s *Store) GetProduct(ctx context.Context, key string) (*Product, error) {
	p := &Product{Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT category, image_url,
		       name_en, name_fr, name_ar,
		       desc_en, desc_fr, desc_ar
		FROM products WHERE key = ?`, key).
		Scan(&p.Category, &p.ImageURL,
			&p.Name.EN, &p.Name.FR, &p.Name.AR,
			&p.Description.EN, &p.Description.FR, &p.Description.AR)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("product %q: %w", key, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	return p, nil
}

// ListProjects returns projects newest first.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, location, year, cover_url, gallery_key,
		       name_en, name_fr, name_ar,
		       desc_en, desc_fr, desc_ar
		FROM projects ORDER BY year DESC, key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Key, &p.Location, &p.Year, &p.CoverURL, &p.GalleryKey,
			&p.Name.EN, &p.Name.FR, &p.Name.AR,
			&p.Description.EN, &p.Description.FR, &p.Description.AR); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetProject returns one project document.
func (s *Store) GetProject(ctx context.Context, key string) (*Project, error) {
	p := &Project{Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT location, year, cover_url, gallery_key,
		       name_en, name_fr, name_ar,
		       desc_en, desc_fr, desc_ar
		FROM projects WHERE key = ?`, key).
		Scan(&p.Location, &p.Year, &p.CoverURL, &p.GalleryKey,
			&p.Name.EN, &p.Name.FR, &p.Name.AR,
			&p.Description.EN, &p.Description.FR, &p.Description.AR)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %q: %w", key, ErrNotFound)
	} else if err != nil {
		return nil, err
	}
	return p, nil
}

package server

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Platform identifiers accepted by the version API.
const (
	PlatformWindows = "windows"
	PlatformMacOS   = "macos"
)

// ValidPlatform reports whether p is a supported platform identifier.
func ValidPlatform(p string) bool {
	return p == PlatformWindows || p == PlatformMacOS
}

// ErrVersionNotFound is returned when a version id does not exist.
var ErrVersionNotFound = errors.New("version not found")

// Version is one release row in the version database.
type Version struct {
	ID          int64     `json:"id"`
	Version     string    `json:"version"`
	Platform    string    `json:"platform"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// VersionStore persists release metadata in a local SQLite database.
type VersionStore struct {
	db *sql.DB
}

// OpenVersionStore opens (creating if needed) the version database.
func OpenVersionStore(path string) (*VersionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open version db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	s := &VersionStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *VersionStore) Close() error {
	return s.db.Close()
}

func (s *VersionStore) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS versions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	version TEXT NOT NULL,
	platform TEXT NOT NULL,
	description TEXT DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE(version, platform)
);`
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("failed to create versions table: %w", err)
	}
	return nil
}

// Create inserts a new version row.
func (s *VersionStore) Create(v *Version) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(
		`INSERT INTO versions (version, platform, description, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		v.Version, v.Platform, v.Description, boolToInt(v.IsActive),
		now.Format(time.RFC3339), now.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert version: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read insert id: %w", err)
	}
	v.ID = id
	v.CreatedAt = now
	v.UpdatedAt = now
	return nil
}

// Get returns a version by id.
func (s *VersionStore) Get(id int64) (*Version, error) {
	row := s.db.QueryRow(
		`SELECT id, version, platform, description, is_active, created_at, updated_at
		 FROM versions WHERE id = ?`, id)
	return scanVersion(row)
}

// List returns versions newest-first, optionally filtered by platform.
func (s *VersionStore) List(platform string) ([]*Version, error) {
	query := `SELECT id, version, platform, description, is_active, created_at, updated_at
		 FROM versions`
	args := []any{}
	if platform != "" {
		query += ` WHERE platform = ?`
		args = append(args, platform)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	var versions []*Version
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// LatestActive returns the newest active version for a platform, or nil
// when none exists.
func (s *VersionStore) LatestActive(platform string) (*Version, error) {
	row := s.db.QueryRow(
		`SELECT id, version, platform, description, is_active, created_at, updated_at
		 FROM versions WHERE platform = ? AND is_active = 1
		 ORDER BY id DESC LIMIT 1`, platform)
	v, err := scanVersion(row)
	if errors.Is(err, ErrVersionNotFound) {
		return nil, nil
	}
	return v, err
}

// VersionChanges describes a partial update to a version row.
type VersionChanges struct {
	Version     *string `json:"version"`
	Platform    *string `json:"platform"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Update applies changes to a version and returns the updated row.
func (s *VersionStore) Update(id int64, changes VersionChanges) (*Version, error) {
	v, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if changes.Version != nil {
		v.Version = *changes.Version
	}
	if changes.Platform != nil {
		v.Platform = *changes.Platform
	}
	if changes.Description != nil {
		v.Description = *changes.Description
	}
	if changes.IsActive != nil {
		v.IsActive = *changes.IsActive
	}
	v.UpdatedAt = time.Now().UTC()

	_, err = s.db.Exec(
		`UPDATE versions SET version = ?, platform = ?, description = ?, is_active = ?, updated_at = ?
		 WHERE id = ?`,
		v.Version, v.Platform, v.Description, boolToInt(v.IsActive),
		v.UpdatedAt.Format(time.RFC3339), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update version: %w", err)
	}
	return v, nil
}

// Delete removes a version row.
func (s *VersionStore) Delete(id int64) error {
	res, err := s.db.Exec(`DELETE FROM versions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVersion(row rowScanner) (*Version, error) {
	var v Version
	var active int
	var created, updated string
	err := row.Scan(&v.ID, &v.Version, &v.Platform, &v.Description, &active, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVersionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan version: %w", err)
	}
	v.IsActive = active != 0
	v.CreatedAt, _ = time.Parse(time.RFC3339, created)
	v.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// CompareVersions orders two dotted version strings numerically segment by
// segment: "0.10.0" > "0.9.1". Non-numeric segments compare as strings.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var av, bv string
		if i < len(as) {
			av = as[i]
		}
		if i < len(bs) {
			bv = bs[i]
		}
		an, aerr := strconv.Atoi(av)
		bn, berr := strconv.Atoi(bv)
		if aerr == nil && berr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if av != bv {
			if av < bv {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Package store persists manuals and their sections in Postgres. The query
// pipeline only depends on the read side (domain.SectionStore); the write
// side is used by ingestion.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/mgtcty/manualqa/internal/domain"
)

// Postgres wraps a database handle. Schema: manuals(id, title, version,
// release_date) and sections(id, section_number, section_title,
// section_content, manual_id).
type Postgres struct {
	DB *sql.DB
}

// Open connects to Postgres using a lib/pq DSN and verifies the connection.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{DB: db}, nil
}

// EnsureSchema creates the manuals and sections tables if missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS manuals (
  id BIGSERIAL PRIMARY KEY,
  title TEXT NOT NULL,
  version TEXT,
  release_date TEXT
);
CREATE TABLE IF NOT EXISTS sections (
  id BIGSERIAL PRIMARY KEY,
  section_number TEXT,
  section_title TEXT,
  section_content TEXT,
  manual_id BIGINT REFERENCES manuals(id)
);`
	if _, err := p.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// ResolveSections returns (content, id, locator) for the given ids. Row
// order is whatever the database yields; callers pair by id or content.
func (p *Postgres) ResolveSections(ctx context.Context, ids []int64) ([]domain.Section, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := p.DB.QueryContext(ctx,
		`SELECT section_content, id, section_number, section_title FROM sections WHERE id = ANY($1)`,
		pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("resolve sections: %w", err)
	}
	defer rows.Close()
	return scanSections(rows)
}

// AllSections returns the whole corpus in id order.
func (p *Postgres) AllSections(ctx context.Context) ([]domain.Section, error) {
	rows, err := p.DB.QueryContext(ctx,
		`SELECT section_content, id, section_number, section_title FROM sections ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("all sections: %w", err)
	}
	defer rows.Close()
	return scanSections(rows)
}

// Manuals lists the stored manuals in insertion order.
func (p *Postgres) Manuals(ctx context.Context) ([]domain.Manual, error) {
	rows, err := p.DB.QueryContext(ctx,
		`SELECT id, title, COALESCE(version, ''), COALESCE(release_date, '') FROM manuals ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list manuals: %w", err)
	}
	defer rows.Close()
	var manuals []domain.Manual
	for rows.Next() {
		var m domain.Manual
		if err := rows.Scan(&m.ID, &m.Title, &m.Version, &m.ReleaseDate); err != nil {
			return nil, fmt.Errorf("scan manual: %w", err)
		}
		manuals = append(manuals, m)
	}
	return manuals, rows.Err()
}

// InsertManual stores a manual and returns its assigned id.
func (p *Postgres) InsertManual(ctx context.Context, title, version, releaseDate string) (int64, error) {
	var id int64
	err := p.DB.QueryRowContext(ctx,
		`INSERT INTO manuals (title, version, release_date) VALUES ($1,$2,$3) RETURNING id`,
		title, version, releaseDate).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert manual: %w", err)
	}
	return id, nil
}

var titleNumberingRe = regexp.MustCompile(`^\s*\d+(\.\d+)*\s*`)

// InsertSections bulk-inserts section records for one manual. The stored
// content is normalized to "<title without numbering>. <content>" so the
// heading's wording is embedded together with the body.
func (p *Postgres) InsertSections(ctx context.Context, manualID int64, records []domain.SectionRecord) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert sections: %w", err)
	}
	const stmt = `INSERT INTO sections (section_number, section_title, section_content, manual_id) VALUES ($1,$2,$3,$4)`
	for _, rec := range records {
		content := NormalizeContent(rec.Title, rec.Content)
		if _, err := tx.ExecContext(ctx, stmt, rec.Number, rec.Title, content, manualID); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert section: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert sections commit: %w", err)
	}
	return nil
}

// DeleteAll removes every section and manual.
func (p *Postgres) DeleteAll(ctx context.Context) error {
	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete all: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections`); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete sections: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM manuals`); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete manuals: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("delete all commit: %w", err)
	}
	return nil
}

// NormalizeContent prefixes the section body with its heading, stripped of
// leading numbering like "2.1 ".
func NormalizeContent(title, content string) string {
	stripped := strings.TrimSpace(titleNumberingRe.ReplaceAllString(title, ""))
	if stripped == "" {
		return content
	}
	return stripped + ". " + content
}

func scanSections(rows *sql.Rows) ([]domain.Section, error) {
	var sections []domain.Section
	for rows.Next() {
		var s domain.Section
		var number, title sql.NullString
		if err := rows.Scan(&s.Content, &s.ID, &number, &title); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		s.Locator = number.String
		s.Title = title.String
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

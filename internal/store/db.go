package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func NewStore(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) RunMigrations(schemaPath string) error {
	content, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to read schema file: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

func clampLimit(limit int, defaultLimit, maxLimit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// Story is one extracted, author-normalized record. Position is the story's
// 0-based order in the source listing; Year and Month may be empty for
// entries that precede the first issue header.
type Story struct {
	ID          int       `json:"id"`
	Position    int       `json:"position"`
	Year        string    `json:"year"`
	Month       string    `json:"month"`
	Title       string    `json:"title"`
	PublishedAs string    `json:"published_as"`
	Author      string    `json:"author"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// AuthorYearCount aggregates stories per author per year for the external
// dashboard's pivot view.
type AuthorYearCount struct {
	Author string `json:"author"`
	Year   string `json:"year"`
	Count  int    `json:"count"`
}

// ReplaceStories swaps the full record set in one transaction. Each scan is
// a pure function of the source document, so a refresh replaces everything
// rather than merging.
func (s *Store) ReplaceStories(ctx context.Context, stories []Story) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stories`); err != nil {
		return fmt.Errorf("clear stories failed: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO stories (position, year, month, title, published_as, author, scraped_at)
VALUES ($1, $2, $3, $4, $5, $6, NOW())
`)
	if err != nil {
		return fmt.Errorf("prepare insert failed: %w", err)
	}
	defer stmt.Close()

	for _, st := range stories {
		if _, err := stmt.ExecContext(ctx, st.Position, st.Year, st.Month, st.Title, st.PublishedAs, st.Author); err != nil {
			return fmt.Errorf("insert story %q failed: %w", st.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit failed: %w", err)
	}
	return nil
}

func (s *Store) ListStories(ctx context.Context, limit, offset int) ([]Story, int, error) {
	limit = clampLimit(limit, 50, 500)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, position, year, month, title, published_as, author, scraped_at
FROM stories
ORDER BY position
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		var st Story
		if err := rows.Scan(
			&st.ID,
			&st.Position,
			&st.Year,
			&st.Month,
			&st.Title,
			&st.PublishedAs,
			&st.Author,
			&st.ScrapedAt,
		); err != nil {
			return nil, 0, err
		}
		stories = append(stories, st)
	}

	return stories, total, rows.Err()
}

// AllStories returns every record in listing order, for the CSV export.
func (s *Store) AllStories(ctx context.Context) ([]Story, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, position, year, month, title, published_as, author, scraped_at
FROM stories
ORDER BY position
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []Story
	for rows.Next() {
		var st Story
		if err := rows.Scan(
			&st.ID,
			&st.Position,
			&st.Year,
			&st.Month,
			&st.Title,
			&st.PublishedAs,
			&st.Author,
			&st.ScrapedAt,
		); err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}

	return stories, rows.Err()
}

func (s *Store) AuthorCounts(ctx context.Context) ([]AuthorYearCount, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT author, year, COUNT(*) AS stories
FROM stories
GROUP BY author, year
ORDER BY author, year
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []AuthorYearCount
	for rows.Next() {
		var c AuthorYearCount
		if err := rows.Scan(&c.Author, &c.Year, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}

	return counts, rows.Err()
}

func (s *Store) CountStories(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stories`).Scan(&total)
	return total, err
}

// LastScrapedAt reports when the record set was last refreshed; zero time
// when the table is empty.
func (s *Store) LastScrapedAt(ctx context.Context) (time.Time, error) {
	var t sql.NullTime
	err := s.db.QueryRowContext(ctx, `SELECT MAX(scraped_at) FROM stories`).Scan(&t)
	if err != nil {
		return time.Time{}, err
	}
	if !t.Valid {
		return time.Time{}, nil
	}
	return t.Time, nil
}

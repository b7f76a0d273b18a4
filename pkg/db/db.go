// Package db stores an optional history of served recommendations in SQLite.
// History is write-mostly: the recommendation engine never reads it, only the
// web insights endpoints do. Callers open a single DB with New and reuse it.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps a sql.DB connection to the history database.
type DB struct {
	*sql.DB
}

// New opens the SQLite database located at path, creating the schema if
// needed. ":memory:" gives a private in-memory database.
func New(path string) (*DB, error) {
	d, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// SQLite allows one writer; a single connection also keeps ":memory:"
	// databases from splitting across the pool.
	d.SetMaxOpenConns(1)
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS recommendations (id TEXT PRIMARY KEY, mood TEXT, genre TEXT NOT NULL, fallback INTEGER NOT NULL, created_at TIMESTAMP NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS recommendation_tracks (recommendation_id TEXT NOT NULL, position INTEGER NOT NULL, track TEXT NOT NULL, PRIMARY KEY (recommendation_id, position))`,
		`CREATE INDEX IF NOT EXISTS idx_rec_created ON recommendations(created_at)`,
	}
	for _, s := range stmts {
		if _, err := d.Exec(s); err != nil {
			d.Close()
			return nil, fmt.Errorf("init db: %w", err)
		}
	}
	return &DB{d}, nil
}

// Recommendation is one stored result.
type Recommendation struct {
	ID        string    `json:"id"`
	Mood      string    `json:"mood"`
	Genre     string    `json:"genre"`
	Fallback  bool      `json:"fallback"`
	Tracks    []string  `json:"tracks"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveRecommendation inserts rec and its tracks in one transaction. A zero
// CreatedAt is replaced with the current time.
func (db *DB) SaveRecommendation(ctx context.Context, rec Recommendation) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO recommendations(id, mood, genre, fallback, created_at) VALUES(?,?,?,?,?)`,
		rec.ID, rec.Mood, rec.Genre, rec.Fallback, rec.CreatedAt); err != nil {
		return fmt.Errorf("save recommendation %s: %w", rec.ID, err)
	}
	for i, t := range rec.Tracks {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recommendation_tracks(recommendation_id, position, track) VALUES(?,?,?)`, rec.ID, i, t); err != nil {
			return fmt.Errorf("save recommendation %s track %d: %w", rec.ID, i, err)
		}
	}
	return tx.Commit()
}

// RecentRecommendations returns up to limit results, newest first, with
// their tracks in the order they were served.
func (db *DB) RecentRecommendations(ctx context.Context, limit int) ([]Recommendation, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, mood, genre, fallback, created_at FROM recommendations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var recs []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.Mood, &r.Genre, &r.Fallback, &r.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		recs = append(recs, r)
	}
	// Close before issuing the track queries; the pool has one connection.
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range recs {
		tracks, err := db.tracks(ctx, recs[i].ID)
		if err != nil {
			return nil, err
		}
		recs[i].Tracks = tracks
	}
	return recs, nil
}

func (db *DB) tracks(ctx context.Context, id string) ([]string, error) {
	rows, err := db.QueryContext(ctx, `SELECT track FROM recommendation_tracks WHERE recommendation_id=? ORDER BY position`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ts []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, rows.Err()
}

// GenreCount represents how many recommendations were served for a genre.
type GenreCount struct {
	Genre     string `json:"genre"`
	Count     int    `json:"count"`
	Fallbacks int    `json:"fallbacks"`
}

// GenreCounts aggregates stored recommendations by genre, most common first.
func (db *DB) GenreCounts(ctx context.Context) ([]GenreCount, error) {
	rows, err := db.QueryContext(ctx, `SELECT genre, COUNT(*) c, SUM(fallback) FROM recommendations GROUP BY genre ORDER BY c DESC, genre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []GenreCount
	for rows.Next() {
		var gc GenreCount
		if err := rows.Scan(&gc.Genre, &gc.Count, &gc.Fallbacks); err != nil {
			return nil, err
		}
		res = append(res, gc)
	}
	return res, rows.Err()
}

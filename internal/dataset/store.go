// Package dataset persists generated sequences and their annotations in a
// local SQLite database, one row per frame, so a rendering run can be
// resumed, audited, and joined against its labels later.
package dataset

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/banshee-data/synthset/internal/frame"
	"github.com/banshee-data/synthset/internal/sequence"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Store wraps the dataset database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the dataset database at path and runs all
// pending migrations. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*Store, error) {
	// The pragma rides in the DSN so every pooled connection enforces
	// foreign keys, not just the first one opened.
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open dataset db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for read-only diagnostics.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(s.db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite migrate driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// Not closing m: that would close the shared DB connection.
	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration up failed: %w", err)
		}
	} else {
		version, _, _ := m.Version()
		Logf("dataset schema migrated to version %d", version)
	}
	return nil
}

// isSQLiteBusy reports whether err is a transient SQLITE_BUSY condition.
func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}

// retryOnBusy retries op with short backoff while it fails with SQLITE_BUSY.
// Writers from parallel annotation workers contend briefly; anything that is
// still busy after the last attempt is a real error.
func retryOnBusy(op func() error) error {
	const attempts = 5
	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); !isSQLiteBusy(err) {
			return err
		}
		Logf("dataset write busy, retrying (attempt %d/%d)", i+1, attempts)
		time.Sleep(time.Duration(i+1) * 10 * time.Millisecond)
	}
	return err
}

// SequenceRecord describes one stored sequence.
type SequenceRecord struct {
	SequenceID string          `json:"sequence_id"`
	Name       string          `json:"name"`
	Strategy   string          `json:"strategy"`
	FrameCount int             `json:"frame_count"`
	Recipe     json.RawMessage `json:"recipe,omitempty"`
	CreatedAt  int64           `json:"created_at"`
}

// InsertSequence stores a sequence with its frames and the recipe that
// produced it, returning the generated sequence ID.
func (s *Store) InsertSequence(name, strategy string, seq *sequence.Sequence, recipe json.RawMessage) (string, error) {
	id := uuid.New().String()
	now := time.Now().UnixNano()

	var recipeStr any
	if len(recipe) > 0 {
		recipeStr = string(recipe)
	}

	err := retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.Exec(`
			INSERT INTO sequences (sequence_id, name, strategy, frame_count, recipe_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			id, name, strategy, seq.Len(), recipeStr, now,
		); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`INSERT INTO frames (sequence_id, frame_index, frame_json) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for i := 0; i < seq.Len(); i++ {
			fj, err := json.Marshal(seq.At(i))
			if err != nil {
				return err
			}
			if _, err := stmt.Exec(id, i, string(fj)); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
	if err != nil {
		return "", fmt.Errorf("inserting sequence %q: %w", name, err)
	}
	return id, nil
}

// GetSequenceRecord returns the metadata row for a sequence.
func (s *Store) GetSequenceRecord(sequenceID string) (*SequenceRecord, error) {
	var rec SequenceRecord
	var recipeStr sql.NullString
	err := s.db.QueryRow(`
		SELECT sequence_id, name, strategy, frame_count, recipe_json, created_at
		FROM sequences WHERE sequence_id = ?`, sequenceID,
	).Scan(&rec.SequenceID, &rec.Name, &rec.Strategy, &rec.FrameCount, &recipeStr, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sequence %s not found", sequenceID)
		}
		return nil, fmt.Errorf("scan sequence: %w", err)
	}
	if recipeStr.Valid {
		rec.Recipe = json.RawMessage(recipeStr.String)
	}
	return &rec, nil
}

// GetSequence reloads a stored sequence's frames in order.
func (s *Store) GetSequence(sequenceID string) (*sequence.Sequence, error) {
	rows, err := s.db.Query(`
		SELECT frame_json FROM frames
		WHERE sequence_id = ? ORDER BY frame_index`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("query frames: %w", err)
	}
	defer rows.Close()

	var frames []frame.Frame
	for rows.Next() {
		var fj string
		if err := rows.Scan(&fj); err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		var f frame.Frame
		if err := json.Unmarshal([]byte(fj), &f); err != nil {
			return nil, fmt.Errorf("decode frame: %w", err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("sequence %s not found", sequenceID)
	}
	return sequence.New(frames), nil
}

// ListSequences returns all sequence records, newest first.
func (s *Store) ListSequences() ([]SequenceRecord, error) {
	rows, err := s.db.Query(`
		SELECT sequence_id, name, strategy, frame_count, recipe_json, created_at
		FROM sequences ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	var out []SequenceRecord
	for rows.Next() {
		var rec SequenceRecord
		var recipeStr sql.NullString
		if err := rows.Scan(&rec.SequenceID, &rec.Name, &rec.Strategy, &rec.FrameCount, &recipeStr, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sequence: %w", err)
		}
		if recipeStr.Valid {
			rec.Recipe = json.RawMessage(recipeStr.String)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Annotation kinds stored alongside frames.
const (
	KindRegions   = "regions"
	KindBoxes     = "bounding_boxes"
	KindCentroids = "centroids"
	KindKeypoints = "keypoints"
)

// Annotation is one structured label attached to a frame.
type Annotation struct {
	AnnotationID string          `json:"annotation_id"`
	SequenceID   string          `json:"sequence_id"`
	FrameIndex   int             `json:"frame_index"`
	Kind         string          `json:"kind"`
	Payload      json.RawMessage `json:"payload"`
	CreatedAt    int64           `json:"created_at"`
}

// InsertAnnotation stores one annotation. An empty AnnotationID is filled
// with a fresh UUID.
func (s *Store) InsertAnnotation(a *Annotation) error {
	if a.AnnotationID == "" {
		a.AnnotationID = uuid.New().String()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().UnixNano()
	}
	err := retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO annotations (annotation_id, sequence_id, frame_index, kind, payload_json, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			a.AnnotationID, a.SequenceID, a.FrameIndex, a.Kind, string(a.Payload), a.CreatedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("inserting %s annotation for frame %d: %w", a.Kind, a.FrameIndex, err)
	}
	return nil
}

// AnnotationsFor returns all annotations of a frame, oldest first.
func (s *Store) AnnotationsFor(sequenceID string, frameIndex int) ([]Annotation, error) {
	rows, err := s.db.Query(`
		SELECT annotation_id, sequence_id, frame_index, kind, payload_json, created_at
		FROM annotations
		WHERE sequence_id = ? AND frame_index = ?
		ORDER BY created_at`, sequenceID, frameIndex)
	if err != nil {
		return nil, fmt.Errorf("query annotations: %w", err)
	}
	defer rows.Close()

	var out []Annotation
	for rows.Next() {
		var a Annotation
		var payload string
		if err := rows.Scan(&a.AnnotationID, &a.SequenceID, &a.FrameIndex, &a.Kind, &payload, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan annotation: %w", err)
		}
		a.Payload = json.RawMessage(payload)
		out = append(out, a)
	}
	return out, rows.Err()
}

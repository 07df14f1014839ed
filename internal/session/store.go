// Package session persists captured landmark streams so a set can be
// replayed through the analyzer after the fact.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/himai-labs/tension.report/internal/motion"
)

// ErrNotFound is returned when a session ID does not exist in the store.
var ErrNotFound = errors.New("session not found")

// Session describes one captured landmark recording.
type Session struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Exercise   string    `json:"exercise"`
	Source     string    `json:"source"`
	FPS        float64   `json:"fps,omitempty"`
	FrameCount int       `json:"frame_count"`
	Label      string    `json:"label,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Meta carries the caller-supplied fields of a session being saved.
type Meta struct {
	Name     string
	Exercise string
	// Source records where the frames came from: a file path, "udp:<addr>"
	// for live captures, or "synthetic" for generated sessions.
	Source string
	// FPS is the nominal capture rate, zero when unknown.
	FPS   float64
	Label string
	Notes string
}

// Store wraps the capture database.
type Store struct {
	*sql.DB
}

// Open opens the capture database, creating it if needed, and applies any
// pending schema migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	s := &Store{db}
	if err := s.MigrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// SaveSession persists a session and its frames in one transaction and
// returns the generated session ID. Frame order is preserved by
// frame_index.
func (s *Store) SaveSession(meta Meta, frames []motion.LandmarkFrame) (string, error) {
	if len(frames) == 0 {
		return "", fmt.Errorf("refusing to save session %q with no frames", meta.Name)
	}

	id := uuid.NewString()

	tx, err := s.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO sessions (id, name, exercise, source, fps, frame_count, label, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, meta.Name, meta.Exercise, meta.Source, meta.FPS, len(frames),
		meta.Label, meta.Notes, time.Now().UnixMilli(),
	); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO frames (session_id, frame_index, timestamp, joints) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, f := range frames {
		joints, err := json.Marshal(f.Joints)
		if err != nil {
			return "", fmt.Errorf("encode joints for frame %d: %w", f.FrameIndex, err)
		}
		if _, err := stmt.Exec(id, f.FrameIndex, f.Timestamp, string(joints)); err != nil {
			return "", fmt.Errorf("insert frame %d: %w", f.FrameIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

const sessionColumns = `id, name, exercise, source, fps, frame_count, label, notes, created_at`

// Get returns one session's metadata.
func (s *Store) Get(id string) (*Session, error) {
	row := s.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return sess, err
}

// List returns all sessions, newest first.
func (s *Store) List() ([]Session, error) {
	rows, err := s.Query(`SELECT ` + sessionColumns + ` FROM sessions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// LoadFrames returns a session's frames in frame_index order, ready to be
// replayed through the analyzer.
func (s *Store) LoadFrames(id string) ([]motion.LandmarkFrame, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	rows, err := s.Query(
		`SELECT frame_index, timestamp, joints FROM frames WHERE session_id = ? ORDER BY frame_index`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []motion.LandmarkFrame
	for rows.Next() {
		var (
			f      motion.LandmarkFrame
			joints string
		)
		if err := rows.Scan(&f.FrameIndex, &f.Timestamp, &joints); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(joints), &f.Joints); err != nil {
			return nil, fmt.Errorf("decode joints for frame %d: %w", f.FrameIndex, err)
		}
		frames = append(frames, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// Delete removes a session and its frames.
func (s *Store) Delete(id string) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM frames WHERE session_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var (
		sess      Session
		createdAt int64
	)
	if err := row.Scan(&sess.ID, &sess.Name, &sess.Exercise, &sess.Source,
		&sess.FPS, &sess.FrameCount, &sess.Label, &sess.Notes, &createdAt); err != nil {
		return nil, err
	}
	sess.CreatedAt = time.UnixMilli(createdAt).UTC()
	return &sess, nil
}

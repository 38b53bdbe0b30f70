// Package local implements the store interfaces against a single SQLite
// file, so the service runs with no network dependency at all. The
// reference catalog (questions, study guides) is seeded from embedded JSON
// fixtures on first open; user data lives in the same file.
package local

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tradebench/backend/internal/store"
)

type Store struct {
	db        *sql.DB
	profiles  *profileStore
	questions *questionStore
	guides    *guideStore
	progress  *progressStore
	bookmarks *bookmarkStore
	sessions  *sessionStore
}

// Open creates (if needed) and opens the offline database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tradebench.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open offline database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping offline database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:        db,
		profiles:  &profileStore{db: db},
		questions: &questionStore{db: db},
		guides:    &guideStore{db: db},
		progress:  &progressStore{db: db},
		bookmarks: &bookmarkStore{db: db},
		sessions:  &sessionStore{db: db},
	}

	if err := s.initSchema(); err != nil {
		return nil, err
	}
	if err := s.seedFixtures(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Profiles() store.ProfileStore       { return s.profiles }
func (s *Store) Questions() store.QuestionStore     { return s.questions }
func (s *Store) StudyGuides() store.StudyGuideStore { return s.guides }
func (s *Store) Progress() store.ProgressStore      { return s.progress }
func (s *Store) Bookmarks() store.BookmarkStore     { return s.bookmarks }
func (s *Store) Sessions() store.SessionStore       { return s.sessions }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS profiles (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		email             TEXT UNIQUE NOT NULL,
		full_name         TEXT NOT NULL,
		selected_year     INTEGER NOT NULL DEFAULT 1,
		security_question TEXT NOT NULL DEFAULT '',
		security_answer   TEXT NOT NULL DEFAULT '',
		password          TEXT NOT NULL,
		created_at        TIMESTAMP NOT NULL,
		updated_at        TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		year           INTEGER NOT NULL,
		section        TEXT NOT NULL,
		difficulty     TEXT NOT NULL,
		text           TEXT NOT NULL,
		options        TEXT NOT NULL,
		correct_answer TEXT NOT NULL,
		explanation    TEXT NOT NULL DEFAULT '',
		created_at     TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_questions_year_section ON questions(year, section);

	CREATE TABLE IF NOT EXISTS study_guides (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		year       INTEGER NOT NULL,
		section    TEXT NOT NULL,
		title      TEXT NOT NULL,
		content    TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS user_progress (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id        INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		year           INTEGER NOT NULL,
		progress_data  TEXT NOT NULL DEFAULT '{}',
		exam_readiness TEXT NOT NULL DEFAULT '{}',
		statistics     TEXT NOT NULL DEFAULT '{}',
		bookmarks      TEXT NOT NULL DEFAULT '[]',
		weak_areas     TEXT NOT NULL DEFAULT '[]',
		streak_data    TEXT NOT NULL DEFAULT '{}',
		updated_at     TIMESTAMP NOT NULL,
		UNIQUE(user_id, year)
	);

	CREATE TABLE IF NOT EXISTS quiz_sessions (
		id              TEXT PRIMARY KEY,
		user_id         INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		year            INTEGER NOT NULL,
		quiz_mode       TEXT NOT NULL DEFAULT 'practice',
		questions       TEXT NOT NULL DEFAULT '[]',
		answers         TEXT NOT NULL DEFAULT '{}',
		score           INTEGER NOT NULL DEFAULT 0,
		total_questions INTEGER NOT NULL DEFAULT 0,
		time_taken      INTEGER NOT NULL DEFAULT 0,
		completed_at    TIMESTAMP,
		created_at      TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user_year ON quiz_sessions(user_id, year);

	CREATE TABLE IF NOT EXISTS bookmarks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		question_id INTEGER NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		year        INTEGER NOT NULL,
		created_at  TIMESTAMP NOT NULL,
		UNIQUE(user_id, question_id)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("init offline schema: %w", err)
	}
	return nil
}

// isDuplicate reports a unique-constraint violation from go-sqlite3.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func jsonBytes(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

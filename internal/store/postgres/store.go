// Package postgres implements the store interfaces against a postgres
// database. Per-user isolation is enforced by scoping every progress,
// bookmark and session statement to the authenticated user's id.
package postgres

import (
	"database/sql"
	"encoding/json"
	"strings"

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

func New(db *sql.DB) *Store {
	return &Store{
		db:        db,
		profiles:  &profileStore{db: db},
		questions: &questionStore{db: db},
		guides:    &guideStore{db: db},
		progress:  &progressStore{db: db},
		bookmarks: &bookmarkStore{db: db},
		sessions:  &sessionStore{db: db},
	}
}

func (s *Store) Profiles() store.ProfileStore       { return s.profiles }
func (s *Store) Questions() store.QuestionStore     { return s.questions }
func (s *Store) StudyGuides() store.StudyGuideStore { return s.guides }
func (s *Store) Progress() store.ProgressStore      { return s.progress }
func (s *Store) Bookmarks() store.BookmarkStore     { return s.bookmarks }
func (s *Store) Sessions() store.SessionStore       { return s.sessions }

func (s *Store) Close() error { return s.db.Close() }

// isDuplicate reports a unique-constraint violation from lib/pq.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}

func jsonBytes(v interface{}) []byte {
	b, _ := json.Marshal(v)
	return b
}

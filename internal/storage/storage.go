package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	KeyDarkMode    = "darkMode"
	KeyAutoRefresh = "autoRefresh"
	KeyCompactView = "compactView"
)

// Preferences are the UI flags restored at startup.
type Preferences struct {
	DarkMode    bool
	AutoRefresh bool
	CompactView bool
}

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS preferences (
	key TEXT PRIMARY KEY,
	value INTEGER NOT NULL DEFAULT 0,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// Load reads all flags. Missing keys read as false.
func (s *Store) Load() (Preferences, error) {
	rows, err := s.db.Query(`SELECT key, value FROM preferences;`)
	if err != nil {
		return Preferences{}, err
	}
	defer rows.Close()

	var p Preferences
	for rows.Next() {
		var key string
		var val int
		if err := rows.Scan(&key, &val); err != nil {
			return Preferences{}, err
		}
		on := val == 1
		switch key {
		case KeyDarkMode:
			p.DarkMode = on
		case KeyAutoRefresh:
			p.AutoRefresh = on
		case KeyCompactView:
			p.CompactView = on
		}
	}
	if err := rows.Err(); err != nil {
		return Preferences{}, err
	}
	return p, nil
}

func (s *Store) Set(key string, on bool) error {
	if !validKey(key) {
		return fmt.Errorf("unknown preference %q", key)
	}
	val := 0
	if on {
		val = 1
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`, key, val, now)
	return err
}

func validKey(key string) bool {
	switch key {
	case KeyDarkMode, KeyAutoRefresh, KeyCompactView:
		return true
	}
	return false
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}

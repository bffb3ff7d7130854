package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotFound is returned when a key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a flat string key-value store. Project metadata, page content and
// preferences are all JSON documents under well-known keys.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	Keys(prefix string) ([]string, error)
}

// ─────────────────────────────────────────────────────────────
// SQLite
// ─────────────────────────────────────────────────────────────

// KVStore implements KV on the kv table.
type KVStore struct {
	db *DB
}

func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(key string) (string, error) {
	var value string
	err := s.db.conn.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *KVStore) Set(key, value string) error {
	_, err := s.db.conn.Exec(
		`INSERT INTO kv (key, value, size, version, updated_at) VALUES (?, ?, ?, 1, CURRENT_TIMESTAMP)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, size = excluded.size,
		 version = kv.version + 1, updated_at = excluded.updated_at`,
		key, value, len(value),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Version returns a counter that grows on every write to key, or 0 when
// the key does not exist. Another process writing the same database is
// detected by comparing versions.
func (s *KVStore) Version(key string) (int64, error) {
	var v int64
	err := s.db.conn.QueryRow(`SELECT version FROM kv WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return v, err
}

func (s *KVStore) Delete(key string) error {
	_, err := s.db.conn.Exec(`DELETE FROM kv WHERE key = ?`, key)
	return err
}

func (s *KVStore) Keys(prefix string) ([]string, error) {
	rows, err := s.db.conn.Query(`SELECT key FROM kv WHERE key LIKE ? ESCAPE '\' ORDER BY key`, likePrefix(prefix))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

// ─────────────────────────────────────────────────────────────
// In-memory
// ─────────────────────────────────────────────────────────────

// MemKV is an in-memory KV. The standalone MCP server falls back to it when
// the database cannot be opened.
type MemKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func (m *MemKV) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemKV) Keys(prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

package veramem

import (
	"database/sql"
	"encoding/binary"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

const cacheSchema = `
CREATE TABLE IF NOT EXISTS embeddings (
    hash TEXT PRIMARY KEY,
    vector BLOB NOT NULL,
    inserted_at DATETIME DEFAULT (datetime('now'))
);
`

// Cache persists content-hash -> embedding across restarts. Entries are
// append-only per hash: the hash uniquely determines the content, so a stored
// vector is never mutated. Eviction drops the oldest-inserted entries once
// maxEntries is exceeded; maxEntries <= 0 disables eviction (unbounded).
type Cache struct {
	db         *sql.DB
	maxEntries int
}

// OpenCache opens (or creates) the cache database at path. ":memory:" works
// for tests.
func OpenCache(path string, maxEntries int) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(cacheSchema); err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db, maxEntries: maxEntries}, nil
}

func (c *Cache) Get(hash string) ([]float32, bool) {
	var blob []byte
	err := c.db.QueryRow(`SELECT vector FROM embeddings WHERE hash = ?`, hash).Scan(&blob)
	if err != nil {
		return nil, false
	}
	return deserializeVector(blob), true
}

func (c *Cache) Put(hash string, vector []float32) error {
	blob, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return err
	}

	if _, err := c.db.Exec(
		`INSERT INTO embeddings (hash, vector) VALUES (?, ?) ON CONFLICT(hash) DO NOTHING`,
		hash, blob,
	); err != nil {
		return err
	}

	return c.evict()
}

func (c *Cache) evict() error {
	if c.maxEntries <= 0 {
		return nil
	}

	var count int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&count); err != nil {
		return err
	}

	if count <= c.maxEntries {
		return nil
	}

	_, err := c.db.Exec(`
		DELETE FROM embeddings WHERE hash IN (
			SELECT hash FROM embeddings ORDER BY rowid ASC LIMIT ?
		)`, count-c.maxEntries)
	return err
}

// Prune drops entries no live chunk references. keep holds the content hashes
// still in use; everything else is stale residue from rewritten files.
func (c *Cache) Prune(keep map[string]bool) (int, error) {
	rows, err := c.db.Query(`SELECT hash FROM embeddings`)
	if err != nil {
		return 0, err
	}

	var stale []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			rows.Close()
			return 0, err
		}
		if !keep[hash] {
			stale = append(stale, hash)
		}
	}
	rows.Close()

	for _, hash := range stale {
		if _, err := c.db.Exec(`DELETE FROM embeddings WHERE hash = ?`, hash); err != nil {
			return 0, err
		}
	}
	return len(stale), nil
}

// Len returns the number of cached embeddings.
func (c *Cache) Len() (int, error) {
	var count int
	err := c.db.QueryRow(`SELECT COUNT(*) FROM embeddings`).Scan(&count)
	return count, err
}

// DB exposes the underlying connection so other stores can share the file.
func (c *Cache) DB() *sql.DB {
	return c.db
}

func (c *Cache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func deserializeVector(blob []byte) []float32 {
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		bits := binary.LittleEndian.Uint32(blob[i*4:])
		vector[i] = math.Float32frombits(bits)
	}
	return vector
}

// In-memory caching of database schemas and hot record sets.

package storage

import (
	"sync"

	"github.com/rowdb/rowdb/internal/engine"
	"github.com/rowdb/rowdb/internal/ksid"
)

// Cache holds per-database snapshots between materialize calls. Every
// settings or record write must invalidate the dependent entries.
type Cache struct {
	mu sync.RWMutex

	databases map[ksid.ID]*Database

	// Hot records (map of database ID to list of records)
	records    map[ksid.ID][]*engine.Record
	maxRecords int
}

// NewCache initializes a new cache.
func NewCache() *Cache {
	return &Cache{
		databases:  make(map[ksid.ID]*Database),
		records:    make(map[ksid.ID][]*engine.Record),
		maxRecords: 100,
	}
}

// GetDatabase returns the cached database, if present.
func (c *Cache) GetDatabase(id ksid.ID) (*Database, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	db, ok := c.databases[id]
	return db, ok
}

// SetDatabase caches a database.
func (c *Cache) SetDatabase(db *Database) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.databases[db.ID] = db
}

// InvalidateDatabase removes a database and its records from the cache.
func (c *Cache) InvalidateDatabase(id ksid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.databases, id)
	delete(c.records, id)
}

// GetRecords returns cached records for a database.
func (c *Cache) GetRecords(databaseID ksid.ID) ([]*engine.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	records, ok := c.records[databaseID]
	return records, ok
}

// SetRecords caches records for a database.
func (c *Cache) SetRecords(databaseID ksid.ID, records []*engine.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.records) >= c.maxRecords {
		c.records = make(map[ksid.ID][]*engine.Record)
	}
	c.records[databaseID] = records
}

// InvalidateRecords removes records for a database from cache.
func (c *Cache) InvalidateRecords(databaseID ksid.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.records, databaseID)
}

// InvalidateAll clears the entire cache.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.databases = make(map[ksid.ID]*Database)
	c.records = make(map[ksid.ID][]*engine.Record)
}

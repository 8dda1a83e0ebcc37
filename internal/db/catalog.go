// internal/db/catalog.go
package db

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/nhath/sqlstudio/internal/log"
)

// Catalog caches database and table listings per server so switching back
// and forth in the sidebar does not hit the server every time
type Catalog struct {
	cache *gocache.Cache
}

// NewCatalog creates a catalog whose entries expire after ttl
func NewCatalog(ttl time.Duration) *Catalog {
	return &Catalog{cache: gocache.New(ttl, 2*ttl)}
}

func databasesKey(server string) string {
	return server + "\x00databases"
}

func tablesKey(server, database string) string {
	return server + "\x00tables\x00" + database
}

// Databases returns the database list for server, querying d on a miss
func (c *Catalog) Databases(ctx context.Context, server string, d Driver) ([]string, error) {
	key := databasesKey(server)
	if v, ok := c.cache.Get(key); ok {
		if dbs, ok := v.([]string); ok {
			log.Debug(log.CatDB, "catalog hit", "server", server)
			return dbs, nil
		}
	}
	dbs, err := d.ListDatabases(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, dbs)
	return dbs, nil
}

// Tables returns the table list for the database d is connected to
func (c *Catalog) Tables(ctx context.Context, server string, d Driver) ([]TableRef, error) {
	key := tablesKey(server, d.Database())
	if v, ok := c.cache.Get(key); ok {
		if tables, ok := v.([]TableRef); ok {
			log.Debug(log.CatDB, "catalog hit", "server", server, "database", d.Database())
			return tables, nil
		}
	}
	tables, err := d.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, tables)
	return tables, nil
}

// Invalidate drops every cached listing for server
func (c *Catalog) Invalidate(server string) {
	prefix := server + "\x00"
	for key := range c.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Delete(key)
		}
	}
}

// InvalidateTables drops the cached table list of one database, used
// after DDL statements
func (c *Catalog) InvalidateTables(server, database string) {
	c.cache.Delete(tablesKey(server, database))
}

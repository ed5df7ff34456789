// Package assets handles asset loading and caching from the local asset tree.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// Loader reads asset files by slash-separated path relative to the asset root.
type Loader interface {
	Load(name string) ([]byte, error)
}

// Manager handles asset loading from a directory tree.
type Manager struct {
	root  string
	fsys  fs.FS
	cache *Cache
}

// NewManager creates a manager rooted at dir on the local filesystem.
func NewManager(dir string) (*Manager, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset root %s is not a directory", dir)
	}
	return NewManagerFS(os.DirFS(dir), dir), nil
}

// NewManagerFS creates a manager over an arbitrary filesystem. root is only
// used to resolve paths for libraries that need real files.
func NewManagerFS(fsys fs.FS, root string) *Manager {
	return &Manager{
		root:  root,
		fsys:  fsys,
		cache: NewCache(),
	}
}

// Load loads a file, serving repeated requests from the cache.
func (m *Manager) Load(name string) ([]byte, error) {
	name = Clean(name)
	if data, ok := m.cache.Get(name); ok {
		return data, nil
	}

	data, err := fs.ReadFile(m.fsys, name)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}
	m.cache.Set(name, data)
	return data, nil
}

// Invalidate drops a cached file so the next Load reads it again.
func (m *Manager) Invalidate(name string) {
	m.cache.Delete(Clean(name))
}

// Path returns the OS path of an asset.
func (m *Manager) Path(name string) string {
	return filepath.Join(m.root, filepath.FromSlash(Clean(name)))
}

// Root returns the asset root directory.
func (m *Manager) Root() string {
	return m.root
}

// FS returns the filesystem the manager reads from.
func (m *Manager) FS() fs.FS {
	return m.fsys
}

// Cache returns the manager's cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close releases cached data.
func (m *Manager) Close() {
	m.cache.Clear()
}

// Clean normalizes an asset path to the slash-separated, root-relative form fs.FS expects.
func Clean(name string) string {
	name = path.Clean(filepath.ToSlash(name))
	for len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	if name == "" {
		return "."
	}
	return name
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.RWMutex

	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

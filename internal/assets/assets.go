// Package assets handles source mesh loading and caching.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/pkg/gltfio"
	"github.com/Faultbox/meshforge/pkg/mesh"
)

// LoadFunc reads every mesh stored in a file.
type LoadFunc func(path string) ([]*mesh.Mesh, error)

// Manager loads source files and keeps the parsed meshes until the file
// changes on disk. Callers always receive their own copies.
type Manager struct {
	load  LoadFunc
	cache *Cache
	log   *zap.Logger
}

// NewManager creates a manager reading glTF and GLB files.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return NewManagerWithLoader(gltfio.NewLoader(log).Load, log)
}

// NewManagerWithLoader creates a manager with a custom reader.
func NewManagerWithLoader(load LoadFunc, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		load:  load,
		cache: NewCache(),
		log:   log,
	}
}

// Load returns the meshes in path, parsing the file only when its size or
// modification time differ from the cached copy.
func (m *Manager) Load(path string) ([]*mesh.Mesh, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	key := Key{Path: abs, ModTime: info.ModTime(), Size: info.Size()}

	if meshes, ok := m.cache.Get(key); ok {
		m.log.Debug("asset cache hit", zap.String("path", path))
		return cloneAll(meshes), nil
	}

	meshes, err := m.load(abs)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m.cache.Set(key, meshes)
	m.log.Debug("asset loaded",
		zap.String("path", path),
		zap.Int("meshes", len(meshes)))
	return cloneAll(meshes), nil
}

// Cache returns the underlying cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops every cached asset.
func (m *Manager) Close() {
	m.cache.Clear()
}

func cloneAll(meshes []*mesh.Mesh) []*mesh.Mesh {
	out := make([]*mesh.Mesh, len(meshes))
	for i, mm := range meshes {
		out[i] = mm.Clone()
	}
	return out
}

// Key identifies one version of a file.
type Key struct {
	Path    string
	ModTime time.Time
	Size    int64
}

// Cache is an in-memory cache of parsed files. It holds at most one
// version per path.
type Cache struct {
	data map[string]entry
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

type entry struct {
	key    Key
	meshes []*mesh.Mesh
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]entry),
	}
}

// Get retrieves the meshes stored for key.
func (c *Cache) Get(key Key) ([]*mesh.Mesh, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key.Path]
	if ok && e.key.Size == key.Size && e.key.ModTime.Equal(key.ModTime) {
		c.hits++
		return e.meshes, true
	}
	c.misses++
	return nil, false
}

// Set stores meshes for key, replacing any older version of the file.
func (c *Cache) Set(key Key, meshes []*mesh.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key.Path] = entry{key: key, meshes: meshes}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]entry)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

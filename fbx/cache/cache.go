package cache

import (
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"

	"github.com/mogaika/fbxdoc/scene"
	"github.com/mogaika/fbxdoc/utils"
)

var log = utils.Log("cache")

type entry struct {
	sync.Mutex
	doc     *scene.Document
	modTime time.Time
	size    int64
}

// slot serializes loads of one name. e is written holding both load and
// Cache.mu, so holding either one is enough to read it
type slot struct {
	load sync.Mutex
	e    *entry
}

// Cache keeps parsed documents of files in fs. Entry is reloaded when
// file size or modification time changes. Files are parsed without holding
// the map lock, so a slow file only blocks requests for itself.
type Cache struct {
	fs billy.Filesystem

	mu sync.Mutex
	d  map[string]*slot
}

func NewCache(fs billy.Filesystem) *Cache {
	return &Cache{fs: fs, d: make(map[string]*slot)}
}

func (c *Cache) Filesystem() billy.Filesystem { return c.fs }

func (c *Cache) load(name string, fi os.FileInfo) (*entry, error) {
	f, err := c.fs.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", name)
	}
	defer f.Close()

	doc := scene.NewDocument()
	if err := doc.Read(f); err != nil {
		return nil, errors.Wrapf(err, "Failed to read %q", name)
	}
	log.Debugf("Loaded %q: %d objects", name, len(doc.Objects()))
	return &entry{doc: doc, modTime: fi.ModTime(), size: fi.Size()}, nil
}

func (c *Cache) slotOf(name string) *slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.d[name]
	if !ok {
		s = &slot{}
		c.d[name] = s
	}
	return s
}

func (c *Cache) publish(name string, s *slot, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s.e = e
	if e == nil {
		if c.d[name] == s {
			delete(c.d, name)
		}
	} else {
		c.d[name] = s
	}
}

func (c *Cache) get(name string) (*entry, error) {
	fi, err := c.fs.Stat(name)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to stat %q", name)
	}
	if fi.IsDir() {
		return nil, errors.Errorf("%q is a directory", name)
	}

	s := c.slotOf(name)
	s.load.Lock()
	defer s.load.Unlock()
	if e := s.e; e != nil && e.size == fi.Size() && e.modTime.Equal(fi.ModTime()) {
		return e, nil
	}
	e, err := c.load(name, fi)
	c.publish(name, s, e)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// With runs f on document of file name while holding its lock.
// Document must not be kept after f returns.
func (c *Cache) With(name string, f func(d *scene.Document) error) error {
	e, err := c.get(name)
	if err != nil {
		return err
	}
	e.Lock()
	defer e.Unlock()
	return f(e.doc)
}

// Get returns cached document, caller must not modify it
func (c *Cache) Get(name string) (*scene.Document, error) {
	e, err := c.get(name)
	if err != nil {
		return nil, err
	}
	return e.doc, nil
}

// Add stores d under name, it is kept until file on disk changes
func (c *Cache) Add(name string, d *scene.Document) error {
	fi, err := c.fs.Stat(name)
	if err != nil {
		return errors.Wrapf(err, "Failed to stat %q", name)
	}
	s := c.slotOf(name)
	s.load.Lock()
	c.publish(name, s, &entry{doc: d, modTime: fi.ModTime(), size: fi.Size()})
	s.load.Unlock()
	return nil
}

func (c *Cache) Drop(name string) {
	c.mu.Lock()
	delete(c.d, name)
	c.mu.Unlock()
}

// Names returns names of loaded documents, sorted
func (c *Cache) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := make([]string, 0, len(c.d))
	for name, s := range c.d {
		if s.e != nil {
			r = append(r, name)
		}
	}
	sort.Strings(r)
	return r
}

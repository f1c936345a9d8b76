package cache

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/fbxdoc/scene"
)

func writeScene(t *testing.T, c *Cache, name string, models ...string) {
	t.Helper()
	d := scene.NewDocument()
	for _, m := range models {
		d.RootModel().CreateChild(scene.ClassModel, scene.SubClassNull, m)
	}
	var buf bytes.Buffer
	require.NoError(t, d.WriteBinary(&buf))
	require.NoError(t, util.WriteFile(c.Filesystem(), name, buf.Bytes(), 0644))
}

func TestCacheReloadsChangedFile(t *testing.T) {
	c := NewCache(memfs.New())
	writeScene(t, c, "a.fbx", "One")

	d, err := c.Get("a.fbx")
	require.NoError(t, err)
	assert.NotNil(t, d.FindObjectByName("One"))
	assert.Equal(t, []string{"a.fbx"}, c.Names())

	writeScene(t, c, "a.fbx", "One", "Two")
	require.NoError(t, c.With("a.fbx", func(d *scene.Document) error {
		assert.NotNil(t, d.FindObjectByName("Two"))
		return nil
	}))

	c.Drop("a.fbx")
	assert.Empty(t, c.Names())
}

func TestCacheErrors(t *testing.T) {
	fs := memfs.New()
	c := NewCache(fs)

	_, err := c.Get("missing.fbx")
	assert.Error(t, err)

	require.NoError(t, util.WriteFile(fs, "bad.fbx", []byte("nope"), 0644))
	_, err = c.Get("bad.fbx")
	assert.Error(t, err)
	assert.Empty(t, c.Names())

	require.NoError(t, fs.MkdirAll("dir", 0755))
	_, err = c.Get("dir")
	assert.Error(t, err)
}

func TestCacheAdd(t *testing.T) {
	c := NewCache(memfs.New())
	writeScene(t, c, "b.fbx")
	d := scene.NewDocument()
	require.NoError(t, c.Add("b.fbx", d))
	assert.Equal(t, []string{"b.fbx"}, c.Names())
	assert.Error(t, c.Add("none.fbx", d))
}

// gatedFS holds Open of one file until gate is closed
type gatedFS struct {
	billy.Filesystem
	name   string
	opened chan struct{}
	gate   chan struct{}
}

func (fs *gatedFS) Open(name string) (billy.File, error) {
	if name == fs.name {
		close(fs.opened)
		<-fs.gate
	}
	return fs.Filesystem.Open(name)
}

func TestSlowFileDoesNotBlockOthers(t *testing.T) {
	fs := &gatedFS{Filesystem: memfs.New(), name: "slow.fbx", opened: make(chan struct{}), gate: make(chan struct{})}
	c := NewCache(fs)
	writeScene(t, c, "slow.fbx", "Slow")
	writeScene(t, c, "fast.fbx", "Fast")

	slow := make(chan error, 1)
	go func() {
		_, err := c.Get("slow.fbx")
		slow <- err
	}()
	<-fs.opened

	fast := make(chan error, 1)
	go func() {
		_, err := c.Get("fast.fbx")
		fast <- err
	}()
	select {
	case err := <-fast:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		close(fs.gate)
		t.Fatal("fast.fbx waited for slow.fbx")
	}
	assert.Equal(t, []string{"fast.fbx"}, c.Names())

	close(fs.gate)
	require.NoError(t, <-slow)
	assert.Equal(t, []string{"fast.fbx", "slow.fbx"}, c.Names())
}

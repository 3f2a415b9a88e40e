// Package fcache maps request targets to memory-mapped files.
//
// Each worker owns one Cache; entries are created on first request for
// a target and retained for the life of the worker. Files are assumed
// immutable while the process runs, so there is no invalidation and no
// eviction. Response bodies borrow the mapped byte range directly,
// which is what makes the write path zero-copy.
package fcache

import (
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// MappedFile owns one read-only shared mapping. Data is non-nil exactly
// when the file is non-empty and the mapping is live.
type MappedFile struct {
	Data []byte
	Size int64
}

func openMapped(path string) (MappedFile, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return MappedFile{}, err
	}
	defer unix.Close(fd)

	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return MappedFile{}, err
	}
	if st.Size == 0 {
		// mmap of length zero is EINVAL; an empty file is still a
		// perfectly servable entry.
		return MappedFile{Size: 0}, nil
	}

	data, err := unix.Mmap(fd, 0, int(st.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return MappedFile{}, err
	}
	return MappedFile{Data: data, Size: st.Size}, nil
}

func (f *MappedFile) unmap() {
	if f.Data != nil {
		_ = unix.Munmap(f.Data)
		f.Data = nil
	}
	f.Size = 0
}

// Cache is the per-worker target → mapped-file table. Strictly
// additive: growth is bounded by the set of distinct targets requested.
// Mutated only by its owning worker; the counters are atomic so the
// stats endpoint can read them from another thread.
type Cache struct {
	root  string
	files map[string]*MappedFile

	opens atomic.Uint64 // open+mmap pairs performed
	bytes atomic.Uint64 // total mapped bytes
}

// New creates a cache resolving targets relative to root.
func New(root string) *Cache {
	if root == "" {
		root = "."
	}
	return &Cache{
		root:  root,
		files: make(map[string]*MappedFile),
	}
}

// Get returns the mapped file for target, opening and mapping it on
// first use. The leading '/' is stripped and the remainder resolved
// under the cache root. Any open or map failure returns nil and is NOT
// cached, so a file created later is still reachable. A hit does not
// allocate: the map lookup converts the key in place.
func (c *Cache) Get(target []byte) *MappedFile {
	if f, ok := c.files[string(target)]; ok {
		return f
	}

	path := filepath.Join(c.root, string(target[1:]))
	f, err := openMapped(path)
	if err != nil {
		return nil
	}

	entry := &f
	c.files[string(target)] = entry
	c.opens.Add(1)
	c.bytes.Add(uint64(f.Size))
	return entry
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.files)
}

// Stats reports open+mmap pairs performed and total mapped bytes.
func (c *Cache) Stats() (opens, bytes uint64) {
	return c.opens.Load(), c.bytes.Load()
}

// Close unmaps every entry. The serving path never calls it: a worker's
// entries stay mapped for the life of the process, outliving every
// response that borrows them.
func (c *Cache) Close() {
	for _, f := range c.files {
		f.unmap()
	}
	c.files = make(map[string]*MappedFile)
}

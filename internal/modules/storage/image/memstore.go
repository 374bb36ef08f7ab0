package image

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps images in memory. Store tests elsewhere use it in place
// of disk or S3.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]Object
	data    map[string][]byte
	now     func() time.Time

	// FailPut and FailDelete inject storage failures.
	FailPut    error
	FailDelete error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]Object),
		data:    make(map[string][]byte),
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, u *Upload) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPut != nil {
		return "", m.FailPut
	}
	p := newObjectPath(u.Extension)
	m.objects[p] = Object{Path: p, Size: u.Size(), ModifiedAt: m.now()}
	m.data[p] = append([]byte(nil), u.Data...)
	return p, nil
}

func (m *MemoryStore) Delete(ctx context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailDelete != nil {
		return m.FailDelete
	}
	clean, err := cleanPath(p)
	if err != nil {
		return err
	}
	delete(m.objects, clean)
	delete(m.data, clean)
	return nil
}

func (m *MemoryStore) List(ctx context.Context) ([]Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Object, 0, len(m.objects))
	for _, obj := range m.objects {
		out = append(out, obj)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (m *MemoryStore) URL(p string) string {
	if p == "" {
		return ""
	}
	return "mem://" + p
}

// Has reports whether p is stored.
func (m *MemoryStore) Has(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[p]
	return ok
}

// Len returns the number of stored images.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// Age shifts the modification time of p into the past.
func (m *MemoryStore) Age(p string, by time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[p]
	if !ok {
		return errors.New("no such image")
	}
	obj.ModifiedAt = obj.ModifiedAt.Add(-by)
	m.objects[p] = obj
	return nil
}

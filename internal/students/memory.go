package students

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SampleRepository is the in-process fallback store used when MONGO_URI is
// not configured or the connection cannot be established. It starts with the
// well-known sample dataset so probes and demos have something to look at.
type SampleRepository struct {
	mu     sync.RWMutex
	byID   map[string]Student
	nextID int
}

// NewSampleRepository returns a repository seeded with the sample dataset.
func NewSampleRepository() *SampleRepository {
	r := &SampleRepository{byID: make(map[string]Student)}
	now := time.Now().UTC()
	seed := []Student{
		{ID: "1", Name: "John Doe", Age: 20, CreatedAt: now},
		{ID: "2", Name: "Jane Smith", Age: 22, CreatedAt: now},
		{ID: "3", Name: "Alice Johnson", Age: 19, CreatedAt: now},
		{ID: "4", Name: "Bob Wilson", Age: 21, CreatedAt: now},
	}
	for _, s := range seed {
		r.byID[s.ID] = s
	}
	r.nextID = 5
	return r
}

// NewEmptySampleRepository returns an unseeded repository (used by tests).
func NewEmptySampleRepository() *SampleRepository {
	return &SampleRepository{byID: make(map[string]Student), nextID: 1}
}

func (r *SampleRepository) Insert(_ context.Context, s *Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = strconv.Itoa(r.nextID)
	r.nextID++
	r.byID[s.ID] = *s
	return nil
}

func (r *SampleRepository) List(_ context.Context) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Student, 0, len(r.byID))
	// numeric id order keeps listings stable
	for i := 1; i < r.nextID; i++ {
		if s, ok := r.byID[strconv.Itoa(i)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SampleRepository) GetByID(_ context.Context, id string) (*Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.byID[id]; ok {
		return &s, nil
	}
	return nil, ErrNotFound
}

func (r *SampleRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SampleRepository) SearchByName(_ context.Context, name string) ([]Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(name)
	out := []Student{}
	for i := 1; i < r.nextID; i++ {
		s, ok := r.byID[strconv.Itoa(i)]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(s.Name), needle) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SampleRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

func (r *SampleRepository) Ping(_ context.Context) error { return nil }

package students

import (
	"context"
	"time"

	"github.com/XXRadeonXFX/student-management-api/internal/audit"
	"github.com/XXRadeonXFX/student-management-api/internal/cache"
	"github.com/XXRadeonXFX/student-management-api/pkg/logger"
	"github.com/XXRadeonXFX/student-management-api/pkg/metrics"
)

const listCacheKey = "all"

// Service encapsulates student business logic: persistence, the optional
// Redis read-through cache for the list endpoint, and best-effort audit
// recording of mutations.
type Service struct {
	repo  Repository
	cache *cache.Cache // nil when Redis is not configured
	audit *audit.Store // nil disables auditing
}

// NewService creates a Service. cache and auditStore may be nil.
func NewService(r Repository, c *cache.Cache, a *audit.Store) *Service {
	return &Service{repo: r, cache: c, audit: a}
}

// Create validates nothing; the handler owns input validation. It stamps
// created_at, persists, invalidates the list cache and records the event.
func (s *Service) Create(ctx context.Context, name string, age int) (*Student, error) {
	st := &Student{Name: name, Age: age, CreatedAt: time.Now().UTC()}
	if err := s.repo.Insert(ctx, st); err != nil {
		return nil, err
	}
	metrics.StudentsCreated.Inc()
	s.invalidateList(ctx)
	if err := s.audit.Record(ctx, audit.Event{Op: "create", StudentID: st.ID, Name: st.Name}); err != nil {
		logger.Warnf("audit record failed: %v", err)
	}
	return st, nil
}

// List returns all students, serving the Redis cache when it is warm.
func (s *Service) List(ctx context.Context) ([]Student, error) {
	if s.cache != nil {
		var cached []Student
		hit, err := s.cache.Get(ctx, listCacheKey, &cached)
		if err != nil {
			logger.Debugf("list cache read failed: %v", err)
		} else if hit {
			metrics.CacheHits.Inc()
			return cached, nil
		} else {
			metrics.CacheMisses.Inc()
		}
	}
	out, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, listCacheKey, out); err != nil {
			logger.Debugf("list cache write failed: %v", err)
		}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Student, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the student, invalidates the list cache and records the
// event. ErrNotFound passes through untouched.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	metrics.StudentsDeleted.Inc()
	s.invalidateList(ctx)
	if err := s.audit.Record(ctx, audit.Event{Op: "delete", StudentID: id}); err != nil {
		logger.Warnf("audit record failed: %v", err)
	}
	return nil
}

func (s *Service) SearchByName(ctx context.Context, name string) ([]Student, error) {
	return s.repo.SearchByName(ctx, name)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Ping reports whether the backing store answers.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *Service) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, listCacheKey); err != nil {
		logger.Debugf("list cache invalidation failed: %v", err)
	}
}

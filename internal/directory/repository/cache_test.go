package repository

import (
	"context"
	"errors"
	"testing"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/pkg/logger"
	"backstage/pkg/model"
)

type mockProfileRepository struct {
	findByIDFunc        func(ctx context.Context, id string) (*model.TalentProfile, error)
	reserveCapacityFunc func(ctx context.Context, agentID string) (bool, error)
	findByIDCalls       int
}

func (m *mockProfileRepository) FindByID(ctx context.Context, id string) (*model.TalentProfile, error) {
	m.findByIDCalls++
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, directoryerrors.ErrNotFound
}

func (m *mockProfileRepository) FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error) {
	return nil, nil
}

func (m *mockProfileRepository) FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error) {
	return nil, nil
}

func (m *mockProfileRepository) UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error {
	return nil
}

func (m *mockProfileRepository) ReserveCapacity(ctx context.Context, agentID string) (bool, error) {
	if m.reserveCapacityFunc != nil {
		return m.reserveCapacityFunc(ctx, agentID)
	}
	return true, nil
}

func (m *mockProfileRepository) ReleaseCapacity(ctx context.Context, agentID string) error {
	return nil
}

type memoryProfileCache struct {
	entries map[string]*model.TalentProfile
	getErr  error
	deletes []string
}

func newMemoryProfileCache() *memoryProfileCache {
	return &memoryProfileCache{entries: map[string]*model.TalentProfile{}}
}

func (c *memoryProfileCache) Get(ctx context.Context, id string) (*model.TalentProfile, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.entries[id]
	if !ok {
		return nil, directoryerrors.ErrCacheMiss
	}
	return p, nil
}

func (c *memoryProfileCache) Set(ctx context.Context, profile *model.TalentProfile) error {
	c.entries[profile.ID] = profile
	return nil
}

func (c *memoryProfileCache) Delete(ctx context.Context, id string) error {
	c.deletes = append(c.deletes, id)
	delete(c.entries, id)
	return nil
}

func TestCachedProfileRepository_ReadThrough(t *testing.T) {
	next := &mockProfileRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.TalentProfile, error) {
			return &model.TalentProfile{ID: id, Name: "Agent One"}, nil
		},
	}
	cache := newMemoryProfileCache()
	repo := NewCachedProfileRepository(next, cache, logger.Discard())

	for i := 0; i < 3; i++ {
		p, err := repo.FindByID(context.Background(), "a1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p.Name != "Agent One" {
			t.Errorf("unexpected profile: %+v", p)
		}
	}

	if next.findByIDCalls != 1 {
		t.Errorf("expected one store lookup, got %d", next.findByIDCalls)
	}
}

func TestCachedProfileRepository_CacheFailureFallsThrough(t *testing.T) {
	next := &mockProfileRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.TalentProfile, error) {
			return &model.TalentProfile{ID: id}, nil
		},
	}
	cache := newMemoryProfileCache()
	cache.getErr = errors.New("connection refused")
	repo := NewCachedProfileRepository(next, cache, logger.Discard())

	if _, err := repo.FindByID(context.Background(), "a1"); err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if next.findByIDCalls != 1 {
		t.Errorf("expected store lookup, got %d calls", next.findByIDCalls)
	}
}

func TestCachedProfileRepository_NotFoundNotCached(t *testing.T) {
	next := &mockProfileRepository{}
	cache := newMemoryProfileCache()
	repo := NewCachedProfileRepository(next, cache, logger.Discard())

	_, err := repo.FindByID(context.Background(), "missing")
	if !errors.Is(err, directoryerrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(cache.entries) != 0 {
		t.Errorf("expected nothing cached, got %d entries", len(cache.entries))
	}
}

func TestCachedProfileRepository_InvalidatesOnReserve(t *testing.T) {
	tests := []struct {
		name           string
		reserved       bool
		wantInvalidate bool
	}{
		{"reserved", true, true},
		{"at capacity", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &mockProfileRepository{
				reserveCapacityFunc: func(ctx context.Context, agentID string) (bool, error) {
					return tt.reserved, nil
				},
			}
			cache := newMemoryProfileCache()
			cache.entries["a1"] = &model.TalentProfile{ID: "a1", OpenAssignments: 1}
			repo := NewCachedProfileRepository(next, cache, logger.Discard())

			ok, err := repo.ReserveCapacity(context.Background(), "a1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.reserved {
				t.Errorf("expected reserved=%v, got %v", tt.reserved, ok)
			}
			_, cached := cache.entries["a1"]
			if cached == tt.wantInvalidate {
				t.Errorf("expected invalidated=%v, entry still cached=%v", tt.wantInvalidate, cached)
			}
		})
	}
}

func TestCachedProfileRepository_InvalidatesOnRegister(t *testing.T) {
	cache := newMemoryProfileCache()
	cache.entries["p1"] = &model.TalentProfile{ID: "p1"}
	repo := NewCachedProfileRepository(&mockProfileRepository{}, cache, logger.Discard())

	err := repo.UpsertService(context.Background(), "p1", &model.ProfessionalService{Name: "Pat"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cache.deletes) != 1 || cache.deletes[0] != "p1" {
		t.Errorf("expected p1 invalidated, got %v", cache.deletes)
	}
}

package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"taskboard/internal/domain"
)

// MemoryTaskRepo 单把读写锁串行化所有写操作
type MemoryTaskRepo struct {
	mu    sync.RWMutex
	tasks map[string]*domain.Task
}

func NewMemoryTaskRepo() *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: make(map[string]*domain.Task)}
}

func (r *MemoryTaskRepo) List(_ context.Context, ownerID string, f domain.TaskFilter) ([]domain.Task, error) {
	r.mu.RLock()
	out := make([]domain.Task, 0)
	for _, t := range r.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		out = append(out, *t)
	}
	r.mu.RUnlock()

	sortTasks(out, f.Sort)
	return out, nil
}

// sortTasks 按时间戳倒序，相同时间按 id 升序保证结果确定
func sortTasks(ts []domain.Task, field domain.SortField) {
	key := func(t *domain.Task) time.Time {
		if field == domain.SortUpdatedAt {
			return t.UpdatedAt
		}
		return t.CreatedAt
	}
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := key(&ts[i]), key(&ts[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return ts[i].ID < ts[j].ID
	})
}

func (r *MemoryTaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tasks[t.ID] = &cp
	return nil
}

func (r *MemoryTaskRepo) Update(_ context.Context, ownerID, id string, p domain.TaskPatch, at time.Time) (*domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	t.UpdatedAt = at
	cp := *t
	return &cp, nil
}

func (r *MemoryTaskRepo) Delete(_ context.Context, ownerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepo) Stats(_ context.Context, ownerID string) (domain.TaskStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var s domain.TaskStats
	for _, t := range r.tasks {
		if t.OwnerID == ownerID {
			s.Add(t.Status, 1)
		}
	}
	return s, nil
}

func (r *MemoryTaskRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.tasks)), nil
}

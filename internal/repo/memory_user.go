package repo

import (
	"context"
	"strings"
	"sync"

	"taskboard/internal/domain"
)

// MemoryUserRepo 进程内用户表；进程退出即丢失
type MemoryUserRepo struct {
	mu    sync.RWMutex
	byID  map[string]*domain.User
	email map[string]string // lower(email) -> id
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		byID:  make(map[string]*domain.User),
		email: make(map[string]string),
	}
}

func (r *MemoryUserRepo) Create(_ context.Context, u *domain.User) error {
	key := strings.ToLower(u.Email)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.email[key]; ok {
		return domain.ErrDuplicateEmail
	}
	cp := *u
	r.byID[u.ID] = &cp
	r.email[key] = u.ID
	return nil
}

func (r *MemoryUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.email[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.byID[id]
	return &cp, nil
}

func (r *MemoryUserRepo) Count(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

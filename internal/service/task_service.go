package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/domain"
	"taskboard/pkg/utils"
)

// StatsCache 可选的统计缓存，见 cache.StatsCache
type StatsCache interface {
	Stats(ctx context.Context, ownerID string, load func(context.Context) (*domain.TaskStats, error)) (*domain.TaskStats, error)
	Forget(ctx context.Context, ownerID string) error
}

type TaskService struct {
	repo  domain.TaskRepository
	cache StatsCache
	log   *zap.Logger
	now   func() time.Time
}

type TaskOption func(*TaskService)

func WithStatsCache(c StatsCache) TaskOption { return func(s *TaskService) { s.cache = c } }

func WithTaskLogger(l *zap.Logger) TaskOption { return func(s *TaskService) { s.log = l } }

func WithTaskClock(now func() time.Time) TaskOption { return func(s *TaskService) { s.now = now } }

func NewTaskService(repo domain.TaskRepository, opts ...TaskOption) *TaskService {
	s := &TaskService{
		repo: repo,
		log:  zap.NewNop(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

const (
	msgTitleRequired = "Task title is required"
	msgBadStatus     = "Status must be pending, in-progress, or completed"
)

// ParseStatusFilter "" 与 "all" 表示不过滤
func ParseStatusFilter(raw string) (domain.TaskStatus, error) {
	if raw == "" || raw == "all" {
		return "", nil
	}
	st := domain.TaskStatus(raw)
	if !st.Valid() {
		return "", domain.Invalid(msgBadStatus)
	}
	return st, nil
}

func ParseSort(raw string) (domain.SortField, error) {
	if raw == "" {
		return domain.SortCreatedAt, nil
	}
	f := domain.SortField(raw)
	if !f.Valid() {
		return "", domain.Invalid("Sort must be createdAt or updatedAt")
	}
	return f, nil
}

func (s *TaskService) List(ctx context.Context, ownerID, status, sort string) ([]domain.Task, error) {
	st, err := ParseStatusFilter(status)
	if err != nil {
		return nil, err
	}
	f, err := ParseSort(sort)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, ownerID, domain.TaskFilter{Status: st, Sort: f})
}

func (s *TaskService) Create(ctx context.Context, ownerID, title, status string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, domain.Invalid(msgTitleRequired)
	}
	st := domain.StatusPending
	if status != "" {
		st = domain.TaskStatus(status)
		if !st.Valid() {
			return nil, domain.Invalid(msgBadStatus)
		}
	}
	now := s.now()
	t := &domain.Task{
		ID:        utils.NewID(),
		OwnerID:   ownerID,
		Title:     title,
		Status:    st,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	s.forget(ctx, ownerID)
	return t, nil
}

// TaskUpdate nil 字段不修改
type TaskUpdate struct {
	Title  *string
	Status *string
}

func (s *TaskService) Update(ctx context.Context, ownerID, id string, in TaskUpdate) (*domain.Task, error) {
	var p domain.TaskPatch
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.Invalid(msgTitleRequired)
		}
		p.Title = &title
	}
	if in.Status != nil {
		st := domain.TaskStatus(*in.Status)
		if !st.Valid() {
			return nil, domain.Invalid(msgBadStatus)
		}
		p.Status = &st
	}
	t, err := s.repo.Update(ctx, ownerID, id, p, s.now())
	if err != nil {
		return nil, err
	}
	s.forget(ctx, ownerID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.forget(ctx, ownerID)
	return nil
}

func (s *TaskService) Stats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	load := func(ctx context.Context) (*domain.TaskStats, error) {
		st, err := s.repo.Stats(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return &st, nil
	}
	if s.cache == nil {
		st, err := load(ctx)
		if err != nil {
			return domain.TaskStats{}, err
		}
		return *st, nil
	}
	st, err := s.cache.Stats(ctx, ownerID, load)
	if err != nil {
		return domain.TaskStats{}, err
	}
	if st == nil {
		return domain.TaskStats{}, nil
	}
	return *st, nil
}

func (s *TaskService) Count(ctx context.Context) (int64, error) { return s.repo.Count(ctx) }

// forget 失效统计缓存；失败只记日志，下次过期后自然恢复
func (s *TaskService) forget(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Forget(ctx, ownerID); err != nil {
		s.log.Warn("stats cache invalidate failed", zap.String("owner", ownerID), zap.Error(err))
	}
}

package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	OwnerID   string     `gorm:"index;size:36;not null" json:"ownerId"`
	Title     string     `gorm:"size:512;not null" json:"title"`
	Status    TaskStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

// SortField 列表排序字段，只允许时间戳列
type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
)

func (f SortField) Valid() bool { return f == SortCreatedAt || f == SortUpdatedAt }

// Column 对应的数据库列名
func (f SortField) Column() string {
	if f == SortUpdatedAt {
		return "updated_at"
	}
	return "created_at"
}

// TaskFilter Status 为空表示不过滤
type TaskFilter struct {
	Status TaskStatus
	Sort   SortField
}

// TaskPatch nil 字段保持不变
type TaskPatch struct {
	Title  *string
	Status *TaskStatus
}

type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
}

func (s *TaskStats) Add(status TaskStatus, n int) {
	s.Total += n
	switch status {
	case StatusPending:
		s.Pending += n
	case StatusInProgress:
		s.InProgress += n
	case StatusCompleted:
		s.Completed += n
	}
}

// TaskRepository 所有操作都按 ownerID 限定范围；不属于 owner 的任务一律视为 ErrNotFound
type TaskRepository interface {
	List(ctx context.Context, ownerID string, f TaskFilter) ([]Task, error)
	Create(ctx context.Context, t *Task) error
	Update(ctx context.Context, ownerID, id string, p TaskPatch, at time.Time) (*Task, error)
	Delete(ctx context.Context, ownerID, id string) error
	Stats(ctx context.Context, ownerID string) (TaskStats, error)
	Count(ctx context.Context) (int64, error)
}

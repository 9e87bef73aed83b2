package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) List(ctx context.Context, ownerID string, f domain.TaskFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Model(&domain.Task{}).Where("owner_id = ?", ownerID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	out := make([]domain.Task, 0)
	err := q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.Sort.Column()}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}}).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TaskRepo) Update(ctx context.Context, ownerID, id string, p domain.TaskPatch, at time.Time) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&t).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		updates := map[string]any{"updated_at": at}
		if p.Title != nil {
			updates["title"] = *p.Title
			t.Title = *p.Title
		}
		if p.Status != nil {
			updates["status"] = *p.Status
			t.Status = *p.Status
		}
		t.UpdatedAt = at
		return tx.Model(&domain.Task{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TaskRepo) Delete(ctx context.Context, ownerID, id string) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&domain.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TaskRepo) Stats(ctx context.Context, ownerID string) (domain.TaskStats, error) {
	var rows []struct {
		Status domain.TaskStatus
		N      int
	}
	var s domain.TaskStats
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Select("status, count(*) AS n").
		Where("owner_id = ?", ownerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return s, err
	}
	for _, row := range rows {
		s.Add(row.Status, row.N)
	}
	return s, nil
}

func (r *TaskRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Task{}).Count(&n).Error
	return n, err
}

// Migrate 建表；memory 驱动不需要
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Task{})
}

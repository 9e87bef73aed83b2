package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/core/database"
	"taskboard/internal/domain"
)

type backend struct {
	name string
	open func(t *testing.T) (domain.UserRepository, domain.TaskRepository)
}

func backends() []backend {
	return []backend{
		{name: "memory", open: func(t *testing.T) (domain.UserRepository, domain.TaskRepository) {
			return NewMemoryUserRepo(), NewMemoryTaskRepo()
		}},
		{name: "gorm-sqlite", open: func(t *testing.T) (domain.UserRepository, domain.TaskRepository) {
			db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", MaxOpenConns: 1, LogLevel: "silent"})
			require.NoError(t, err)
			t.Cleanup(func() { _ = database.Close(db) })
			require.NoError(t, Migrate(db))
			return NewUserRepo(db), NewTaskRepo(db)
		}},
	}
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func mkTask(id, owner, title string, st domain.TaskStatus, offset int) *domain.Task {
	at := base.Add(time.Duration(offset) * time.Second)
	return &domain.Task{ID: id, OwnerID: owner, Title: title, Status: st, CreatedAt: at, UpdatedAt: at}
}

func ids(ts []domain.Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestUserRepo_Contract(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			users, _ := b.open(t)

			u := &domain.User{ID: "u1", Name: "A", Email: "a@x.com", PasswordHash: "h", CreatedAt: base, UpdatedAt: base}
			require.NoError(t, users.Create(ctx, u))

			got, err := users.FindByID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "a@x.com", got.Email)
			assert.Equal(t, "h", got.PasswordHash)

			got, err = users.FindByEmail(ctx, "A@X.COM")
			require.NoError(t, err)
			assert.Equal(t, "u1", got.ID)

			dup := &domain.User{ID: "u2", Name: "B", Email: "A@x.Com", PasswordHash: "h", CreatedAt: base, UpdatedAt: base}
			assert.ErrorIs(t, users.Create(ctx, dup), domain.ErrDuplicateEmail)

			_, err = users.FindByID(ctx, "missing")
			assert.ErrorIs(t, err, domain.ErrNotFound)
			_, err = users.FindByEmail(ctx, "nobody@x.com")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			n, err := users.Count(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
		})
	}
}

func TestTaskRepo_ListScopedFilteredSorted(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			_, tasks := b.open(t)

			require.NoError(t, tasks.Create(ctx, mkTask("t1", "alice", "one", domain.StatusPending, 1)))
			require.NoError(t, tasks.Create(ctx, mkTask("t2", "alice", "two", domain.StatusCompleted, 3)))
			require.NoError(t, tasks.Create(ctx, mkTask("t3", "bob", "three", domain.StatusPending, 2)))
			require.NoError(t, tasks.Create(ctx, mkTask("t5", "alice", "five", domain.StatusPending, 2)))
			require.NoError(t, tasks.Create(ctx, mkTask("t4", "alice", "four", domain.StatusPending, 2)))

			all, err := tasks.List(ctx, "alice", domain.TaskFilter{Sort: domain.SortCreatedAt})
			require.NoError(t, err)
			assert.Equal(t, []string{"t2", "t4", "t5", "t1"}, ids(all))
			for _, task := range all {
				assert.Equal(t, "alice", task.OwnerID)
			}

			pending, err := tasks.List(ctx, "alice", domain.TaskFilter{Status: domain.StatusPending, Sort: domain.SortCreatedAt})
			require.NoError(t, err)
			assert.Equal(t, []string{"t4", "t5", "t1"}, ids(pending))

			none, err := tasks.List(ctx, "carol", domain.TaskFilter{Sort: domain.SortCreatedAt})
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestTaskRepo_UpdateDelete(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			_, tasks := b.open(t)
			require.NoError(t, tasks.Create(ctx, mkTask("t1", "alice", "one", domain.StatusPending, 1)))
			require.NoError(t, tasks.Create(ctx, mkTask("t2", "alice", "two", domain.StatusPending, 2)))

			done := domain.StatusCompleted
			later := base.Add(time.Hour)
			got, err := tasks.Update(ctx, "alice", "t1", domain.TaskPatch{Status: &done}, later)
			require.NoError(t, err)
			assert.Equal(t, "one", got.Title)
			assert.Equal(t, domain.StatusCompleted, got.Status)
			assert.True(t, later.Equal(got.UpdatedAt))

			byUpdated, err := tasks.List(ctx, "alice", domain.TaskFilter{Sort: domain.SortUpdatedAt})
			require.NoError(t, err)
			assert.Equal(t, []string{"t1", "t2"}, ids(byUpdated))

			title := "renamed"
			_, err = tasks.Update(ctx, "bob", "t1", domain.TaskPatch{Title: &title}, later)
			assert.ErrorIs(t, err, domain.ErrNotFound)
			_, err = tasks.Update(ctx, "alice", "nope", domain.TaskPatch{Title: &title}, later)
			assert.ErrorIs(t, err, domain.ErrNotFound)

			assert.ErrorIs(t, tasks.Delete(ctx, "bob", "t1"), domain.ErrNotFound)
			require.NoError(t, tasks.Delete(ctx, "alice", "t1"))
			assert.ErrorIs(t, tasks.Delete(ctx, "alice", "t1"), domain.ErrNotFound)

			left, err := tasks.List(ctx, "alice", domain.TaskFilter{Sort: domain.SortCreatedAt})
			require.NoError(t, err)
			assert.Equal(t, []string{"t2"}, ids(left))

			n, err := tasks.Count(ctx)
			require.NoError(t, err)
			assert.EqualValues(t, 1, n)
		})
	}
}

func TestTaskRepo_Stats(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			_, tasks := b.open(t)
			require.NoError(t, tasks.Create(ctx, mkTask("t1", "alice", "a", domain.StatusPending, 1)))
			require.NoError(t, tasks.Create(ctx, mkTask("t2", "alice", "b", domain.StatusInProgress, 2)))
			require.NoError(t, tasks.Create(ctx, mkTask("t3", "alice", "c", domain.StatusCompleted, 3)))
			require.NoError(t, tasks.Create(ctx, mkTask("t4", "alice", "d", domain.StatusCompleted, 4)))
			require.NoError(t, tasks.Create(ctx, mkTask("t5", "bob", "e", domain.StatusPending, 5)))

			s, err := tasks.Stats(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStats{Total: 4, Pending: 1, InProgress: 1, Completed: 2}, s)

			s, err = tasks.Stats(ctx, "carol")
			require.NoError(t, err)
			assert.Equal(t, domain.TaskStats{}, s)
		})
	}
}

func TestMemoryTaskRepo_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	tasks := NewMemoryTaskRepo()
	require.NoError(t, tasks.Create(ctx, mkTask("t1", "alice", "a", domain.StatusPending, 1)))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st := domain.StatusInProgress
			if i%2 == 0 {
				st = domain.StatusCompleted
			}
			_, err := tasks.Update(ctx, "alice", "t1", domain.TaskPatch{Status: &st}, base.Add(time.Duration(i)*time.Second))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	s, err := tasks.Stats(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Total)
	assert.Equal(t, 1, s.InProgress+s.Completed)
}

func TestMemoryRepos_ReturnCopies(t *testing.T) {
	ctx := context.Background()
	tasks := NewMemoryTaskRepo()
	orig := mkTask("t1", "alice", "a", domain.StatusPending, 1)
	require.NoError(t, tasks.Create(ctx, orig))
	orig.Title = "mutated"

	list, err := tasks.List(ctx, "alice", domain.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].Title)
}

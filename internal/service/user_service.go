package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"taskboard/internal/domain"
	"taskboard/pkg/utils"
)

const MinPasswordLen = 6

// UserService 凭证存储：注册、校验密码、按 id 查询
type UserService struct {
	repo    domain.UserRepository
	cost    int
	hashSem *semaphore.Weighted
	now     func() time.Time
}

type UserOption func(*UserService)

// WithBcryptCost 测试里用 bcrypt.MinCost 加速
func WithBcryptCost(cost int) UserOption { return func(s *UserService) { s.cost = cost } }

// WithHashConcurrency 同时进行的 bcrypt 计算上限；<=0 取 GOMAXPROCS
func WithHashConcurrency(n int64) UserOption {
	return func(s *UserService) {
		if n <= 0 {
			n = int64(runtime.GOMAXPROCS(0))
		}
		s.hashSem = semaphore.NewWeighted(n)
	}
}

func WithUserClock(now func() time.Time) UserOption { return func(s *UserService) { s.now = now } }

func NewUserService(repo domain.UserRepository, opts ...UserOption) *UserService {
	s := &UserService{
		repo:    repo,
		cost:    12,
		hashSem: semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *UserService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, domain.Invalid("All fields are required")
	}
	if len(password) < MinPasswordLen {
		return nil, domain.Invalid(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLen))
	}
	if !strings.Contains(email, "@") {
		return nil, domain.Invalid("Valid email is required")
	}

	// 先查一次，避免重复邮箱白白消耗一次 bcrypt；最终唯一性由仓储保证
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	hash, err := s.hash(ctx, password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Verify 邮箱不存在与密码错误返回同一个 ErrInvalidCredentials
func (s *UserService) Verify(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	ok, err := s.check(ctx, password, u.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *UserService) Count(ctx context.Context) (int64, error) { return s.repo.Count(ctx) }

func (s *UserService) hash(ctx context.Context, pw string) (string, error) {
	if err := s.hashSem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer s.hashSem.Release(1)
	h, err := utils.HashPassword(pw, s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return h, nil
}

func (s *UserService) check(ctx context.Context, pw, hashed string) (bool, error) {
	if err := s.hashSem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer s.hashSem.Release(1)
	ok, err := utils.CheckPassword(pw, hashed)
	if err != nil {
		return false, fmt.Errorf("check password: %w", err)
	}
	return ok, nil
}

package repo

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"taskboard/internal/core/database"
	"taskboard/internal/domain"
)

// Stores 一组仓储；DB 为 nil 表示进程内存储
type Stores struct {
	Users domain.UserRepository
	Tasks domain.TaskRepository
	DB    *gorm.DB
}

// Open 按驱动选择内存或 GORM 仓储，migrate 为真时先建表
func Open(o database.Opts, migrate bool) (*Stores, error) {
	if o.Driver == "" || strings.EqualFold(o.Driver, database.DriverMemory) {
		return &Stores{Users: NewMemoryUserRepo(), Tasks: NewMemoryTaskRepo()}, nil
	}
	db, err := database.NewGorm(o)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", o.Driver, err)
	}
	if migrate {
		if err := Migrate(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return &Stores{Users: NewUserRepo(db), Tasks: NewTaskRepo(db), DB: db}, nil
}

func (s *Stores) Close() error {
	if s.DB == nil {
		return nil
	}
	return database.Close(s.DB)
}

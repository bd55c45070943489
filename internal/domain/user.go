package domain

import (
	"context"
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // OAuth 账号为空串
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUser 待插入的用户，ID/时间戳由存储层分配
type NewUser struct {
	Email        string
	Name         string
	PasswordHash string
}

// UserRepository 用户集合，email 全局唯一（精确匹配，不做大小写归一）。
//
// FindByEmail 和 Insert 之间没有原子性：并发注册同一 email 时两边都可能
// 通过存在性检查。users.email 上的唯一索引兜底，冲突方拿到 ErrDuplicateEmail。
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Insert(ctx context.Context, nu NewUser) (*User, error)
	// UpsertByEmail 不存在则按 nu 创建；已存在只刷新 updatedAt，
	// 不覆盖 name / passwordHash（OAuth 登录不得冲掉本地资料）
	UpsertByEmail(ctx context.Context, email string, nu NewUser) (*User, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
}

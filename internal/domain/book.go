package domain

import "context"

type Book struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Year   int    `json:"year"`
	Genre  string `json:"genre,omitempty"`
}

// BookUpdate 只更新非 nil 字段
type BookUpdate struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Year   *int    `json:"year"`
	Genre  *string `json:"genre"`
}

func (u BookUpdate) Empty() bool {
	return u.Title == nil && u.Author == nil && u.Year == nil && u.Genre == nil
}

type BookRepository interface {
	FindAll(ctx context.Context) ([]Book, error)
	FindByID(ctx context.Context, id string) (*Book, error)
	Insert(ctx context.Context, b Book) (*Book, error)
	Update(ctx context.Context, id string, u BookUpdate) (*Book, error)
	Delete(ctx context.Context, id string) (bool, error)
}

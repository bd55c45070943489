package service

import (
	"context"
	"time"

	"soundpath/internal/core/cache"
	"soundpath/internal/domain"
)

const bookCacheTTL = 5 * time.Minute

// Books 图书 CRUD 的薄封装；cache 可为 nil（未配置 redis 时直连 Mongo）
type Books struct {
	repo  domain.BookRepository
	cache *cache.Cache
}

func NewBooks(repo domain.BookRepository, c *cache.Cache) *Books {
	return &Books{repo: repo, cache: c}
}

func (s *Books) List(ctx context.Context) ([]domain.Book, error) {
	return s.repo.FindAll(ctx)
}

func (s *Books) Get(ctx context.Context, id string) (*domain.Book, error) {
	if s.cache == nil {
		return s.repo.FindByID(ctx, id)
	}
	return cache.GetOrLoadJSON[domain.Book](s.cache, ctx, bookKey(id), bookCacheTTL,
		func(ctx context.Context) (*domain.Book, error) {
			return s.repo.FindByID(ctx, id)
		})
}

func (s *Books) Create(ctx context.Context, b domain.Book) (*domain.Book, error) {
	return s.repo.Insert(ctx, b)
}

func (s *Books) Update(ctx context.Context, id string, u domain.BookUpdate) (*domain.Book, error) {
	b, err := s.repo.Update(ctx, id, u)
	if err == nil && s.cache != nil {
		s.cache.Invalidate(ctx, bookKey(id))
	}
	return b, err
}

func (s *Books) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.repo.Delete(ctx, id)
	if err == nil && s.cache != nil {
		s.cache.Invalidate(ctx, bookKey(id))
	}
	return ok, err
}

func bookKey(id string) string { return "book:" + id }

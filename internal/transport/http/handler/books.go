package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"soundpath/internal/domain"
	"soundpath/internal/service"
	httpez "soundpath/internal/transport/http/ez"
)

type Books struct{ svc *service.Books }

func NewBooks(svc *service.Books) *Books { return &Books{svc: svc} }

func (h *Books) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g)

	httpez.RegisterAction[struct{}, []domain.Book](e, httpez.Action[struct{}, []domain.Book]{
		Method: http.MethodGet,
		Path:   "/books",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Book, error) {
			books, err := h.svc.List(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("list books failed", err)
			}
			return books, nil
		},
	})

	httpez.RegisterAction[struct{}, domain.Book](e, httpez.Action[struct{}, domain.Book]{
		Method: http.MethodGet,
		Path:   "/books/:id",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (domain.Book, error) {
			b, err := h.svc.Get(c.Request.Context(), c.Param("id"))
			// 非法 id 视同不存在
			if errors.Is(err, domain.ErrInvalidID) {
				return domain.Book{}, httpez.NotFound("Book not found")
			}
			if err != nil {
				return domain.Book{}, httpez.Internal("get book failed", err)
			}
			if b == nil {
				return domain.Book{}, httpez.NotFound("Book not found")
			}
			return *b, nil
		},
	})

	type bookIn struct {
		Title  string `json:"title"  binding:"required"`
		Author string `json:"author" binding:"required"`
		Year   int    `json:"year"   binding:"required"`
		Genre  string `json:"genre"`
	}
	httpez.RegisterAction[bookIn, domain.Book](e, httpez.Action[bookIn, domain.Book]{
		Method: http.MethodPost,
		Path:   "/books",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *bookIn) (domain.Book, error) {
			b, err := h.svc.Create(c.Request.Context(), domain.Book{
				Title: in.Title, Author: in.Author, Year: in.Year, Genre: in.Genre,
			})
			if err != nil {
				return domain.Book{}, httpez.Internal("create book failed", err)
			}
			return *b, nil
		},
	})

	httpez.RegisterAction[domain.BookUpdate, domain.Book](e, httpez.Action[domain.BookUpdate, domain.Book]{
		Method: http.MethodPut,
		Path:   "/books/:id",
		Binder: httpez.BindJSON,
		Handler: func(c *gin.Context, in *domain.BookUpdate) (domain.Book, error) {
			if in.Empty() {
				return domain.Book{}, httpez.BadRequest("No fields to update")
			}
			b, err := h.svc.Update(c.Request.Context(), c.Param("id"), *in)
			if errors.Is(err, domain.ErrInvalidID) {
				return domain.Book{}, httpez.NotFound("Book not found")
			}
			if err != nil {
				return domain.Book{}, httpez.Internal("update book failed", err)
			}
			if b == nil {
				return domain.Book{}, httpez.NotFound("Book not found")
			}
			return *b, nil
		},
	})

	httpez.RegisterAction[struct{}, struct{}](e, httpez.Action[struct{}, struct{}]{
		Method: http.MethodDelete,
		Path:   "/books/:id",
		Binder: httpez.BindNone,
		Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (struct{}, error) {
			ok, err := h.svc.Delete(c.Request.Context(), c.Param("id"))
			if errors.Is(err, domain.ErrInvalidID) {
				return struct{}{}, httpez.NotFound("Book not found")
			}
			if err != nil {
				return struct{}{}, httpez.Internal("delete book failed", err)
			}
			if !ok {
				return struct{}{}, httpez.NotFound("Book not found")
			}
			return struct{}{}, nil
		},
	})
}

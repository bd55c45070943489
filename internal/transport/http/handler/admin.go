package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"soundpath/internal/domain"
	httpez "soundpath/internal/transport/http/ez"
)

type Admin struct{ users domain.UserRepository }

func NewAdmin(users domain.UserRepository) *Admin { return &Admin{users: users} }

func (h *Admin) MountAdmin(g *gin.RouterGroup) {
	e := httpez.New(g)

	// --- GET /admin/v1/users 用户列表 ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=20"`
	}
	type row struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		Name      string    `json:"name"`
		OAuthOnly bool      `json:"oauthOnly"` // 无本地密码的账号
		CreatedAt time.Time `json:"createdAt"`
	}
	type listOut struct {
		Total int64 `json:"total"`
		Items []row `json:"items"`
	}

	httpez.RegisterAction[listQ, listOut](e, httpez.Action[listQ, listOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Handler: func(c *gin.Context, in *listQ) (listOut, error) {
			if in.Limit <= 0 || in.Limit > 100 {
				in.Limit = 20
			}
			if in.Offset < 0 {
				in.Offset = 0
			}
			users, total, err := h.users.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return listOut{}, httpez.Internal("list users failed", err)
			}
			out := listOut{Total: total, Items: make([]row, 0, len(users))}
			for _, u := range users {
				out.Items = append(out.Items, row{
					ID:        u.ID,
					Email:     u.Email,
					Name:      u.Name,
					OAuthOnly: u.PasswordHash == "",
					CreatedAt: u.CreatedAt,
				})
			}
			return out, nil
		},
	})
}

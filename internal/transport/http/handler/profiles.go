package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"soundpath/internal/domain"
	"soundpath/internal/service"
	httpez "soundpath/internal/transport/http/ez"
)

type Profiles struct{ svc *service.Profiles }

func NewProfiles(svc *service.Profiles) *Profiles { return &Profiles{svc: svc} }

func (h *Profiles) MountAPI(g *gin.RouterGroup) {
	e := httpez.New(g)

	type profileIn struct {
		UserID     string   `json:"user_id"    binding:"required"`
		Name       string   `json:"name"       binding:"required"`
		Experience string   `json:"experience" binding:"required"`
		Instrument string   `json:"instrument" binding:"required"`
		Goal       string   `json:"goal"       binding:"required"`
		Genres     []string `json:"genres"     binding:"required"`
		Gear       []string `json:"gear"       binding:"required"`
	}
	httpez.RegisterAction[profileIn, domain.Profile](e, httpez.Action[profileIn, domain.Profile]{
		Method: http.MethodPost,
		Path:   "/profiles",
		Binder: httpez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *profileIn) (domain.Profile, error) {
			p, err := h.svc.Create(c.Request.Context(), domain.Profile{
				UserID:     in.UserID,
				Name:       in.Name,
				Experience: in.Experience,
				Instrument: in.Instrument,
				Goal:       in.Goal,
				Genres:     in.Genres,
				Gear:       in.Gear,
			})
			if err != nil {
				return domain.Profile{}, httpez.Internal("create profile failed", err)
			}
			return *p, nil
		},
	})

	httpez.RegisterAction[struct{}, []domain.Profile](e, httpez.Action[struct{}, []domain.Profile]{
		Method: http.MethodGet,
		Path:   "/profiles",
		Binder: httpez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Profile, error) {
			ps, err := h.svc.List(c.Request.Context())
			if err != nil {
				return nil, httpez.Internal("list profiles failed", err)
			}
			return ps, nil
		},
	})
}

package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"soundpath/internal/domain"
	"soundpath/internal/oauth"
	"soundpath/internal/service"
	resp "soundpath/internal/transport/http/response"
)

// Auth 注册 / 登录 / OAuth 两个入口。
// OAuth 回调永远 302 回前端，失败只通过 query 参数传达（浏览器正处于
// 跳转途中，渲染不了 JSON 错误）。
type Auth struct {
	identity    *service.Identity
	provider    oauth.Provider
	redirectURI string
	frontendURL string
	log         *zap.Logger
}

func NewAuth(identity *service.Identity, provider oauth.Provider, redirectURI, frontendURL string, log *zap.Logger) *Auth {
	return &Auth{
		identity:    identity,
		provider:    provider,
		redirectURI: redirectURI,
		frontendURL: frontendURL,
		log:         log,
	}
}

func (h *Auth) MountAPI(g *gin.RouterGroup) {
	g.POST("/api/register", h.register)
	g.POST("/api/login", h.login)
	g.GET("/login", h.oauthRedirect)
	g.GET("/auth", h.oauthCallback)
}

type registerIn struct {
	Email    string `json:"email"    binding:"required,email"`
	// bcrypt 的输入上限是 72 字节，超长在绑定层就拦下
	Password string `json:"password" binding:"required,min=6,max=72"`
	Name     string `json:"name"     binding:"required,max=64"`
}

func (h *Auth) register(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.AuthFail(err.Error()))
		return
	}

	u, token, err := h.identity.Register(c.Request.Context(), in.Email, in.Password, in.Name)
	switch {
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, resp.AuthFail("User with this email already exists"))
	case err != nil:
		h.log.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.AuthFail("internal server error"))
	default:
		c.JSON(http.StatusCreated, resp.AuthOK("User registered successfully", token, u.ID, u.Name, u.Email))
	}
}

type loginIn struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Auth) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, resp.AuthFail(err.Error()))
		return
	}

	u, token, err := h.identity.Login(c.Request.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		// 查无此人和密码错误同一个文案，不泄露区分信号
		c.JSON(http.StatusUnauthorized, resp.AuthFail("Invalid email or password"))
	case err != nil:
		h.log.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.AuthFail("internal server error"))
	default:
		c.JSON(http.StatusOK, resp.AuthOK("Login successful", token, u.ID, u.Name, u.Email))
	}
}

func (h *Auth) oauthRedirect(c *gin.Context) {
	authURL, err := h.provider.BuildAuthURL(h.redirectURI)
	if err != nil {
		h.log.Error("oauth redirect failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, resp.Error("oauth is not configured"))
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

func (h *Auth) oauthCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "no_code", "missing authorization code")
		return
	}

	u, token, err := h.identity.OAuthLogin(c.Request.Context(), code, h.redirectURI)
	if err != nil {
		h.log.Warn("oauth login failed", zap.Error(err))
		code := oauthErrorCode(err)
		desc := err.Error()
		if code == "unexpected" {
			// 存储故障等内部细节不外露
			desc = "something went wrong"
		}
		h.redirectError(c, code, desc)
		return
	}

	q := url.Values{}
	q.Set("token", token)
	q.Set("user", u.Email)
	c.Redirect(http.StatusFound, h.frontendURL+"?"+q.Encode())
}

func (h *Auth) redirectError(c *gin.Context, code, description string) {
	q := url.Values{}
	q.Set("error", code)
	q.Set("description", description)
	c.Redirect(http.StatusFound, h.frontendURL+"?"+q.Encode())
}

func oauthErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNoToken):
		return "no_token"
	case errors.Is(err, domain.ErrTokenExchange), errors.Is(err, domain.ErrMissingClientConfig):
		return "token_error"
	case errors.Is(err, domain.ErrNoEmail):
		return "no_email"
	case errors.Is(err, domain.ErrUserInfo):
		return "user_info_error"
	default:
		return "unexpected"
	}
}

package service

import (
	"context"
	"strings"

	"soundpath/internal/core/auth"
	"soundpath/internal/domain"
	"soundpath/internal/oauth"
	"soundpath/pkg/utils"
)

// Identity 注册 / 密码登录 / OAuth 登录的编排层。
// 无实例状态，可在并发请求间共享同一个实例。
type Identity struct {
	users    domain.UserRepository
	provider oauth.Provider
	jwter    *auth.JWTer
}

func NewIdentity(users domain.UserRepository, provider oauth.Provider, jwter *auth.JWTer) *Identity {
	return &Identity{users: users, provider: provider, jwter: jwter}
}

func (s *Identity) Register(ctx context.Context, email, password, name string) (*domain.User, string, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", domain.ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.Insert(ctx, domain.NewUser{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login 查无此人 / 密码错误 / OAuth 账号无密码，三种情况统一返回
// ErrInvalidCredentials，不给调用方区分信号
func (s *Identity) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || u.PasswordHash == "" || !utils.CheckPassword(password, u.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// OAuthLogin code→token→profile 三步交换，然后按 email 对账：
// 没有就建一个无密码账号，已有直接复用（不拿提供方的 claim 覆盖本地资料）
func (s *Identity) OAuthLogin(ctx context.Context, code, redirectURI string) (*domain.User, string, error) {
	accessToken, err := s.provider.ExchangeCode(ctx, code, redirectURI)
	if err != nil {
		return nil, "", err
	}

	ui, err := s.provider.FetchUserInfo(ctx, accessToken)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(ui.Email) == "" {
		return nil, "", domain.ErrNoEmail
	}

	u, err := s.users.UpsertByEmail(ctx, ui.Email, domain.NewUser{
		Email:        ui.Email,
		Name:         displayName(ui),
		PasswordHash: "",
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwter.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func displayName(ui *oauth.UserInfo) string {
	name := strings.TrimSpace(strings.TrimSpace(ui.GivenName) + " " + strings.TrimSpace(ui.FamilyName))
	if name != "" {
		return name
	}
	if strings.TrimSpace(ui.Name) != "" {
		return strings.TrimSpace(ui.Name)
	}
	return "SoundPath User"
}

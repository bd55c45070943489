package oauth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"soundpath/internal/domain"
)

// Google OAuth2 端点（测试时可覆盖）
const (
	DefaultAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	DefaultTokenURL    = "https://oauth2.googleapis.com/token"
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var scopes = []string{"openid", "email", "profile"}

// UserInfo 提供方 userinfo 响应里我们关心的字段
type UserInfo struct {
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
}

// Provider 身份提供方的两步 code→token→profile 交换
type Provider interface {
	BuildAuthURL(redirectURI string) (string, error)
	ExchangeCode(ctx context.Context, code, redirectURI string) (string, error)
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

type Google struct {
	ClientID     string
	ClientSecret string

	AuthURL     string
	TokenURL    string
	UserInfoURL string

	client *resty.Client
}

func NewGoogle(clientID, clientSecret string, timeout time.Duration) *Google {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Google{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		AuthURL:      DefaultAuthURL,
		TokenURL:     DefaultTokenURL,
		UserInfoURL:  DefaultUserInfoURL,
		client:       resty.New().SetTimeout(timeout),
	}
}

// BuildAuthURL 纯字符串拼接，不发网络请求；client_id 未配置时直接报错
func (g *Google) BuildAuthURL(redirectURI string) (string, error) {
	if strings.TrimSpace(g.ClientID) == "" {
		return "", domain.ErrMissingClientConfig
	}
	params := url.Values{}
	params.Set("client_id", g.ClientID)
	params.Set("redirect_uri", redirectURI)
	params.Set("scope", strings.Join(scopes, " "))
	params.Set("response_type", "code")
	params.Set("access_type", "offline")
	return g.AuthURL + "?" + params.Encode(), nil
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (g *Google) ExchangeCode(ctx context.Context, code, redirectURI string) (string, error) {
	if strings.TrimSpace(g.ClientID) == "" {
		return "", domain.ErrMissingClientConfig
	}
	var tr tokenResp
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"client_id":     g.ClientID,
			"client_secret": g.ClientSecret,
			"code":          code,
			"grant_type":    "authorization_code",
			"redirect_uri":  redirectURI,
		}).
		SetResult(&tr).
		Post(g.TokenURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrTokenExchange, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("%w: provider returned %d", domain.ErrTokenExchange, resp.StatusCode())
	}
	if tr.AccessToken == "" {
		return "", domain.ErrNoToken
	}
	return tr.AccessToken, nil
}

func (g *Google) FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	var ui UserInfo
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&ui).
		Get(g.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUserInfo, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: provider returned %d", domain.ErrUserInfo, resp.StatusCode())
	}
	return &ui, nil
}

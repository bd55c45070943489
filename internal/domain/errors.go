package domain

import "errors"

// 预期内的业务错误（handler 层映射为 4xx）；其余错误一律按 500 处理
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidID          = errors.New("invalid identifier")
	ErrDuplicateEmail     = errors.New("duplicate email")

	// OAuth 流程
	ErrMissingClientConfig = errors.New("oauth client id is not configured")
	ErrTokenExchange       = errors.New("token exchange failed")
	ErrNoToken             = errors.New("no access token in provider response")
	ErrUserInfo            = errors.New("user info fetch failed")
	ErrNoEmail             = errors.New("provider returned no email")
)

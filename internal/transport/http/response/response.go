package response

// ErrBody 所有错误响应的统一形状
type ErrBody struct {
	Message string `json:"message"`
}

func Error(msg string) ErrBody { return ErrBody{Message: msg} }

// AuthUser 注册 / 登录成功后回给前端的用户视图，不含密码哈希
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Auth /api/register 与 /api/login 的返回体
type Auth struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Token   string    `json:"token,omitempty"`
	User    *AuthUser `json:"user,omitempty"`
}

func AuthOK(message, token string, id, name, email string) Auth {
	return Auth{
		Success: true,
		Message: message,
		Token:   token,
		User:    &AuthUser{ID: id, Name: name, Email: email},
	}
}

func AuthFail(message string) Auth {
	return Auth{Success: false, Message: message}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundpath/internal/core/auth"
	"soundpath/internal/domain"
	"soundpath/internal/oauth"
	"soundpath/pkg/utils"
)

// ---- 内存版用户仓储 ----

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // key = email
	seq   int
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*domain.User)}
}

func (r *memUserRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("%024x", r.seq)
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Insert(_ context.Context, nu domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[nu.Email]; ok {
		return nil, domain.ErrDuplicateEmail
	}
	now := time.Now().UTC()
	u := &domain.User{
		ID:           r.nextID(),
		Email:        nu.Email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[nu.Email] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) UpsertByEmail(_ context.Context, email string, nu domain.NewUser) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if u, ok := r.users[email]; ok {
		// 已存在只刷新 updatedAt
		u.UpdatedAt = now
		cp := *u
		return &cp, nil
	}
	u := &domain.User{
		ID:           r.nextID(),
		Email:        email,
		Name:         nu.Name,
		PasswordHash: nu.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.users[email] = u
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) List(_ context.Context, _, _ int) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *memUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

// ---- 假身份提供方 ----

type fakeProvider struct {
	exchangeErr error
	infoErr     error
	info        oauth.UserInfo
}

func (p *fakeProvider) BuildAuthURL(string) (string, error) { return "https://example.com/auth", nil }

func (p *fakeProvider) ExchangeCode(_ context.Context, _, _ string) (string, error) {
	if p.exchangeErr != nil {
		return "", p.exchangeErr
	}
	return "access-token", nil
}

func (p *fakeProvider) FetchUserInfo(_ context.Context, _ string) (*oauth.UserInfo, error) {
	if p.infoErr != nil {
		return nil, p.infoErr
	}
	ui := p.info
	return &ui, nil
}

func newTestIdentity(provider oauth.Provider) (*Identity, *memUserRepo, *auth.JWTer) {
	repo := newMemUserRepo()
	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "soundpath", TTL: 7 * 24 * time.Hour}
	return NewIdentity(repo, provider, jwter), repo, jwter
}

func TestRegister_Success(t *testing.T) {
	svc, repo, jwter := newTestIdentity(&fakeProvider{})

	u, token, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "a@x.com", u.Email)
	assert.Equal(t, "A", u.Name)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, 1, repo.count())

	// 签出的 token 必须能验回同一个身份
	claims, err := jwter.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UID)
	assert.Equal(t, u.Email, claims.Email)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, repo, _ := newTestIdentity(&fakeProvider{})

	_, _, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), "a@x.com", "other-pw", "B")
	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	assert.Equal(t, 1, repo.count(), "second registration must not create a second document")
}

func TestLogin_Success(t *testing.T) {
	svc, _, jwter := newTestIdentity(&fakeProvider{})

	reg, _, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	u, token, err := svc.Login(context.Background(), "a@x.com", "pw123456")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	claims, err := jwter.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, claims.UID)
}

// 不存在的邮箱 / 错密码 / 无密码的 OAuth 账号，错误完全一致
func TestLogin_UniformFailure(t *testing.T) {
	svc, repo, _ := newTestIdentity(&fakeProvider{})

	_, _, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	// OAuth-only 账号
	_, err = repo.UpsertByEmail(context.Background(), "oauth@x.com", domain.NewUser{
		Email: "oauth@x.com", Name: "O", PasswordHash: "",
	})
	require.NoError(t, err)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@x.com", "pw123456"},
		{"wrong password", "a@x.com", "wrong"},
		{"oauth account has no password", "oauth@x.com", "pw123456"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.email, tc.password)
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
			assert.EqualError(t, err, domain.ErrInvalidCredentials.Error())
		})
	}
}

func TestOAuthLogin_CreatesOnce(t *testing.T) {
	provider := &fakeProvider{info: oauth.UserInfo{
		Email: "g@x.com", GivenName: "Grace", FamilyName: "Hopper",
	}}
	svc, repo, _ := newTestIdentity(provider)

	u1, token1, err := svc.OAuthLogin(context.Background(), "code-1", "http://localhost:3000/auth")
	require.NoError(t, err)
	assert.NotEmpty(t, token1)
	assert.Equal(t, "g@x.com", u1.Email)
	assert.Equal(t, "Grace Hopper", u1.Name)
	assert.Empty(t, u1.PasswordHash)
	assert.Equal(t, 1, repo.count())

	// 再来一次：同一个 id，不产生重复
	u2, _, err := svc.OAuthLogin(context.Background(), "code-2", "http://localhost:3000/auth")
	require.NoError(t, err)
	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, 1, repo.count())
}

// OAuth 登录撞上已注册邮箱：复用本地账号，不覆盖资料
func TestOAuthLogin_ExistingLocalAccount(t *testing.T) {
	provider := &fakeProvider{info: oauth.UserInfo{
		Email: "a@x.com", GivenName: "Other", FamilyName: "Name",
	}}
	svc, repo, _ := newTestIdentity(provider)

	reg, _, err := svc.Register(context.Background(), "a@x.com", "pw123456", "Local Name")
	require.NoError(t, err)

	u, _, err := svc.OAuthLogin(context.Background(), "code", "http://localhost:3000/auth")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)
	assert.Equal(t, "Local Name", u.Name, "provider claims must not clobber the local profile")
	assert.Equal(t, 1, repo.count())

	// 本地密码还能用
	_, _, err = svc.Login(context.Background(), "a@x.com", "pw123456")
	assert.NoError(t, err)
}

func TestOAuthLogin_NoEmail(t *testing.T) {
	provider := &fakeProvider{info: oauth.UserInfo{Email: "  "}}
	svc, repo, _ := newTestIdentity(provider)

	_, _, err := svc.OAuthLogin(context.Background(), "code", "http://localhost:3000/auth")
	assert.ErrorIs(t, err, domain.ErrNoEmail)
	assert.Equal(t, 0, repo.count())
}

func TestOAuthLogin_ProviderFailures(t *testing.T) {
	t.Run("exchange fails", func(t *testing.T) {
		svc, _, _ := newTestIdentity(&fakeProvider{exchangeErr: domain.ErrTokenExchange})
		_, _, err := svc.OAuthLogin(context.Background(), "code", "uri")
		assert.ErrorIs(t, err, domain.ErrTokenExchange)
	})
	t.Run("userinfo fails", func(t *testing.T) {
		svc, _, _ := newTestIdentity(&fakeProvider{infoErr: domain.ErrUserInfo})
		_, _, err := svc.OAuthLogin(context.Background(), "code", "uri")
		assert.ErrorIs(t, err, domain.ErrUserInfo)
	})
}

func TestDisplayName_Fallbacks(t *testing.T) {
	assert.Equal(t, "Grace Hopper", displayName(&oauth.UserInfo{GivenName: "Grace", FamilyName: "Hopper"}))
	assert.Equal(t, "Grace", displayName(&oauth.UserInfo{GivenName: "Grace"}))
	assert.Equal(t, "G Hopper", displayName(&oauth.UserInfo{Name: "G Hopper"}))
	assert.Equal(t, "SoundPath User", displayName(&oauth.UserInfo{}))
}

// bcrypt 超过 72 字节会报错；报错时必须整单失败，
// 不能落下一个哈希为空、永远登不进来的账号
func TestRegister_OverlongPasswordFails(t *testing.T) {
	svc, repo, _ := newTestIdentity(&fakeProvider{})

	pw := strings.Repeat("a", 80)
	_, token, err := svc.Register(context.Background(), "long@x.com", pw, "L")
	require.Error(t, err)
	assert.Empty(t, token)
	assert.Equal(t, 0, repo.count(), "failed registration must not leave a document behind")
}

// 输掉 check-then-insert 竞争：FindByEmail 放行，Insert 撞唯一索引
type raceUserRepo struct{ *memUserRepo }

func (r *raceUserRepo) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, nil
}

func TestRegister_LosesInsertRace(t *testing.T) {
	repo := &raceUserRepo{newMemUserRepo()}
	_, err := repo.Insert(context.Background(), domain.NewUser{Email: "a@x.com", Name: "A"})
	require.NoError(t, err)

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "soundpath", TTL: time.Hour}
	svc := NewIdentity(repo, &fakeProvider{}, jwter)

	_, _, err = svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, 1, repo.count())
}

// 验证密码哈希确实没存明文（顺带守住 Register 的存储形状）
func TestRegister_StoresHashedPassword(t *testing.T) {
	svc, repo, _ := newTestIdentity(&fakeProvider{})

	_, _, err := svc.Register(context.Background(), "a@x.com", "pw123456", "A")
	require.NoError(t, err)

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "pw123456", stored.PasswordHash)
	assert.True(t, utils.CheckPassword("pw123456", stored.PasswordHash))
}

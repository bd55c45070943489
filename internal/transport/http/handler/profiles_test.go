package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundpath/internal/domain"
	"soundpath/internal/service"
)

type memProfileRepo struct {
	mu       sync.Mutex
	profiles []domain.Profile
	seq      int
}

func (r *memProfileRepo) FindAll(_ context.Context) ([]domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Profile, len(r.profiles))
	copy(out, r.profiles)
	return out, nil
}

func (r *memProfileRepo) Insert(_ context.Context, p domain.Profile) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("%024x", r.seq)
	r.profiles = append(r.profiles, p)
	return &p, nil
}

func newProfilesEngine() *gin.Engine {
	h := NewProfiles(service.NewProfiles(&memProfileRepo{}))
	r := gin.New()
	h.MountAPI(r.Group(""))
	return r
}

const profileJSON = `{
	"user_id":"u1","name":"Ada","experience":"beginner","instrument":"guitar",
	"goal":"play live","genres":["rock","jazz"],"gear":["amp"]
}`

func TestProfiles_CreateAndList(t *testing.T) {
	r := newProfilesEngine()

	w := doJSON(r, http.MethodPost, "/profiles", profileJSON)
	require.Equal(t, http.StatusCreated, w.Code)

	var created domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "u1", created.UserID)
	assert.Equal(t, []string{"rock", "jazz"}, created.Genres)

	w = doJSON(r, http.MethodGet, "/profiles", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list []domain.Profile
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])
}

func TestProfiles_CreateValidation(t *testing.T) {
	r := newProfilesEngine()

	w := doJSON(r, http.MethodPost, "/profiles", `{"user_id":"u1","name":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

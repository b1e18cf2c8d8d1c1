package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/goodypm20014-source/hapche-social/services"
)

type nopPersister struct{}

func (nopPersister) Load() ([]byte, error) { return nil, nil }
func (nopPersister) Save([]byte) error     { return nil }

type stubChat struct {
	reply string
	err   error
}

func (s *stubChat) Complete(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func stackTestRouter(t *testing.T, chat services.Completer) (*gin.Engine, *services.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := services.NewStore(nopPersister{})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	moderator := services.NewModerationService(chat, time.Second, services.RealClock{}, zap.NewNop())
	svc := services.NewStackService(store, moderator, chat, zap.NewNop())
	ctrl := NewStackController(store, svc, services.NewNotifier(store, nil, nil))

	r := gin.New()
	r.POST("/stacks", ctrl.Create)
	r.GET("/stacks", ctrl.List)
	return r, store
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestStackCreate_PremiumRequired(t *testing.T) {
	r, _ := stackTestRouter(t, &stubChat{reply: `{"status": "approved", "confidence": 1}`})

	w := postJSON(r, "/stacks", gin.H{"name": "Сутрешен стак", "supplements": []string{"Витамин D"}})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"upgrade":"premium"`)
}

func TestStackCreate_RejectedByModeration(t *testing.T) {
	chat := &stubChat{reply: `{"approved": false, "status": "rejected", "reason": "Опасна дозировка", "confidence": 0.9}`}
	r, store := stackTestRouter(t, chat)
	store.RegisterUser("a@example.com", "A")
	store.SubscribeToPremium()

	w := postJSON(r, "/stacks", gin.H{"name": "Мега дози", "supplements": []string{"Витамин A"}})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "Опасна дозировка")
	assert.Empty(t, store.Stacks())
}

func TestStackCreate_FlaggedCarriesNotice(t *testing.T) {
	chat := &stubChat{err: fmt.Errorf("moderation backend down")}
	r, store := stackTestRouter(t, chat)
	store.RegisterUser("a@example.com", "A")
	store.SubscribeToPremium()

	w := postJSON(r, "/stacks", gin.H{"name": "Сутрешен стак", "supplements": []string{"Витамин D"}})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "notice")
	require.Len(t, store.Stacks(), 1)
}

func TestStackCreate_InvalidPayload(t *testing.T) {
	r, _ := stackTestRouter(t, &stubChat{reply: `{"status": "approved", "confidence": 1}`})

	w := postJSON(r, "/stacks", gin.H{"description": "без име"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFavorites_GuestUpsell(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store, err := services.NewStore(nopPersister{})
	require.NoError(t, err)
	t.Cleanup(store.Close)

	ctrl := NewFavoritesController(store)
	r := gin.New()
	r.POST("/favorites", ctrl.Create)
	r.GET("/favorites", ctrl.List)

	w := postJSON(r, "/favorites", gin.H{"name": "цинк"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"upgrade":"free"`)

	store.RegisterUser("a@example.com", "A")
	w = postJSON(r, "/favorites", gin.H{"name": "цинк"})
	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, store.Favorites(), 1)
	assert.Equal(t, "цинк", store.Favorites()[0].Name)
}

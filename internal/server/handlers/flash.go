package handlers

import (
	"crypto/sha256"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/autobase/webfront/internal/server/views"
)

const flashSessionName = "autobase_flash"

const (
	flashSuccess = "success"
	flashDanger  = "danger"
)

// flashStore keeps action results in a signed cookie until the next page
// renders them.
type flashStore struct {
	store  *sessions.CookieStore
	logger *zap.Logger
}

func newFlashStore(secret string, secure bool, logger *zap.Logger) *flashStore {
	key := sha256.Sum256([]byte(secret))
	cs := sessions.NewCookieStore(key[:])
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   10 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &flashStore{store: cs, logger: logger}
}

func (s *flashStore) get(r *http.Request) *sessions.Session {
	// A tampered or stale cookie yields a fresh session alongside the error.
	sess, _ := s.store.Get(r, flashSessionName)
	return sess
}

func (s *flashStore) add(c *gin.Context, kind, text string) {
	sess := s.get(c.Request)
	sess.AddFlash(text, kind)
	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.logger.Warn("save flash", zap.Error(err))
	}
}

func (s *flashStore) pop(c *gin.Context) []views.Flash {
	sess := s.get(c.Request)

	var out []views.Flash
	for _, kind := range []string{flashSuccess, flashDanger} {
		for _, v := range sess.Flashes(kind) {
			if text, ok := v.(string); ok && text != "" {
				out = append(out, views.Flash{Kind: kind, Text: text})
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	if err := sess.Save(c.Request, c.Writer); err != nil {
		s.logger.Warn("clear flashes", zap.Error(err))
	}
	return out
}

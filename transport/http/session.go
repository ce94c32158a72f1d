package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/flarexio/grocerize/conf"
)

const (
	alphabetizedKey = "alph"
	flashKey        = "flash"
)

func NewSessionStore(cfg conf.Session) sessions.Store {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return store
}

// session wraps the gorilla session of the current visitor.
type session struct {
	*sessions.Session
	c *gin.Context
}

func (p *Pages) session(c *gin.Context) *session {
	// Get returns a new session alongside the decode error
	s, _ := p.store.Get(c.Request, p.sessionName)
	return &session{s, c}
}

func (s *session) Alphabetized() bool {
	alph, _ := s.Values[alphabetizedKey].(bool)
	return alph
}

func (s *session) FlipAlphabetized() {
	s.Values[alphabetizedKey] = !s.Alphabetized()
}

func (s *session) Flash(msg string) {
	s.Values[flashKey] = msg
}

// PopFlash returns the pending message once and reports whether the session
// changed.
func (s *session) PopFlash() (string, bool) {
	msg, ok := s.Values[flashKey].(string)
	if !ok {
		return "", false
	}

	delete(s.Values, flashKey)
	return msg, true
}

func (s *session) Save() error {
	return s.Session.Save(s.c.Request, s.c.Writer)
}

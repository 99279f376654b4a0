package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"carz/pkg/search"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "carz_session"

// toastQueue collects notifications until the next page render.
type toastQueue struct {
	mu    sync.Mutex
	items []search.Notification
}

func (q *toastQueue) Notify(n search.Notification) {
	q.mu.Lock()
	q.items = append(q.items, n)
	q.mu.Unlock()
}

func (q *toastQueue) Drain() []search.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}

// pendingNav records the last navigation so the handler can redirect to it.
type pendingNav struct {
	mu     sync.Mutex
	target string
}

func (p *pendingNav) Navigate(path string, params []search.Param) {
	p.mu.Lock()
	p.target = search.BuildURL(path, params)
	p.mu.Unlock()
}

func (p *pendingNav) Take() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	t := p.target
	p.target = ""
	return t
}

type session struct {
	id     string
	widget *search.Widget
	toasts *toastQueue
	nav    *pendingNav
}

type widgetFactory func(search.Navigator, search.Notifier) *search.Widget

// sessionStore keeps one widget per visitor in memory.
type sessionStore struct {
	ttl       time.Duration
	newWidget widgetFactory
	logger    *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	lastSeen map[string]time.Time
}

func newSessionStore(ttl time.Duration, f widgetFactory, logger *slog.Logger) *sessionStore {
	return &sessionStore{
		ttl:       ttl,
		newWidget: f,
		logger:    logger,
		sessions:  make(map[string]*session),
		lastSeen:  make(map[string]time.Time),
	}
}

func (s *sessionStore) get(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if ok {
		s.lastSeen[id] = time.Now()
	}
	return sess, ok
}

func (s *sessionStore) create() *session {
	sess := &session{
		id:     uuid.NewString(),
		toasts: &toastQueue{},
		nav:    &pendingNav{},
	}
	sess.widget = s.newWidget(sess.nav, sess.toasts)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.lastSeen[sess.id] = time.Now()
	s.mu.Unlock()
	return sess
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep drops sessions idle since before now-ttl and returns how many went.
func (s *sessionStore) sweep(now time.Time) int {
	var expired []*session
	s.mu.Lock()
	for id, seen := range s.lastSeen {
		if now.Sub(seen) > s.ttl {
			expired = append(expired, s.sessions[id])
			delete(s.sessions, id)
			delete(s.lastSeen, id)
		}
	}
	s.mu.Unlock()
	for _, sess := range expired {
		sess.widget.Close()
	}
	return len(expired)
}

// run sweeps idle sessions until ctx is done.
func (s *sessionStore) run(ctx context.Context) error {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if n := s.sweep(now); n > 0 {
				s.logger.Debug("expired sessions", "count", n, "remaining", s.len())
			}
		}
	}
}

func sessionMiddleware(store *sessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess *session
		if id, err := c.Cookie(sessionCookie); err == nil {
			sess, _ = store.get(id)
		}
		if sess == nil {
			sess = store.create()
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.id,
				Path:     "/",
				MaxAge:   int(store.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set("session", sess)
		c.Next()
	}
}

func sessionFromContext(c *gin.Context) *session {
	v, _ := c.Get("session")
	sess, _ := v.(*session)
	return sess
}

// Package server exposes browser sessions to a rendering surface over HTTP.
package server

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/genomenotebook/genomenotebook/internal/browser"
)

// DefaultSessionTTL is how long an idle session is kept.
const DefaultSessionTTL = time.Hour

// session holds one browser. Its mutex serialises viewport events so each
// handler completes before the next one starts.
type session struct {
	mu       sync.Mutex
	id       string
	browser  *browser.Browser
	lastUsed time.Time
}

// Server manages browser sessions.
type Server struct {
	mu       sync.Mutex
	sessions map[string]*session

	defaults browser.Options
	root     string
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithRoot restricts file paths in session requests to dir.
func WithRoot(dir string) Option {
	return func(s *Server) { s.root = filepath.Clean(dir) }
}

// WithSessionTTL sets the idle time after which sessions are dropped.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Server) { s.ttl = d }
}

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New creates a server whose sessions start from defaults.
func New(defaults browser.Options, opts ...Option) *Server {
	s := &Server{
		sessions: make(map[string]*session),
		defaults: defaults,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		logger:   zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Router returns the gin engine serving the session API.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	g := r.Group("/sessions")
	g.POST("", s.createSession)
	g.GET("/:id", s.withSession(s.showSession))
	g.DELETE("/:id", s.deleteSession)
	g.POST("/:id/viewport", s.withSession(s.setViewport))
	g.POST("/:id/pan", s.withSession(s.pan))
	g.POST("/:id/zoom", s.withSession(s.zoom))
	g.POST("/:id/navigate", s.withSession(s.navigate))
	g.POST("/:id/search", s.withSession(s.search))
	g.POST("/:id/next", s.withSession(s.next))
	g.POST("/:id/previous", s.withSession(s.previous))
	g.POST("/:id/highlight", s.withSession(s.highlight))
	g.POST("/:id/tooltip", s.withSession(s.tooltip))
	return r
}

func (s *Server) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("elapsed", time.Since(start)))
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were dropped.
func (s *Server) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-s.ttl)
	n := 0
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastUsed.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

func (s *Server) lookup(id string) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// withSession resolves :id and runs h with the session locked.
func (s *Server) withSession(h func(*gin.Context, *browser.Browser)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := s.lookup(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()
		sess.lastUsed = s.now()
		h(c, sess.browser)
	}
}

// resolve maps a request path into the server root.
func (s *Server) resolve(path string) (string, error) {
	if path == "" || s.root == "" {
		return path, nil
	}
	p := path
	if !filepath.IsAbs(p) {
		p = filepath.Join(s.root, p)
	}
	p = filepath.Clean(p)
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", errors.New("path outside server root: " + path)
	}
	return p, nil
}

func (s *Server) createSession(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	opts, err := req.options(s.defaults, s.resolve)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := browser.New(opts, browser.WithLogger(s.logger))
	if err != nil {
		var cfgErr *browser.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if n := s.Sweep(); n > 0 {
		s.logger.Info("expired sessions", zap.Int("count", n))
	}

	sess := &session{id: uuid.NewString(), browser: b, lastUsed: s.now()}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.logger.Info("session created", zap.String("id", sess.id), zap.String("seq_id", b.SeqID()))

	c.JSON(http.StatusCreated, CreateResponse{ID: sess.id, Frame: b.Show()})
}

func (s *Server) deleteSession(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) showSession(c *gin.Context, b *browser.Browser) {
	c.JSON(http.StatusOK, b.Show())
}

func (s *Server) setViewport(c *gin.Context, b *browser.Browser) {
	var req RangeRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, b.SetRange(req.Start, req.End))
}

func (s *Server) pan(c *gin.Context, b *browser.Browser) {
	var req PanRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, b.Pan(req.Delta))
}

func (s *Server) zoom(c *gin.Context, b *browser.Browser) {
	var req ZoomRequest
	if !bind(c, &req) {
		return
	}
	if req.Factor <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "zoom factor must be positive"})
		return
	}
	pivot := b.Viewport().Range().Center()
	if req.Pivot != nil {
		pivot = *req.Pivot
	}
	c.JSON(http.StatusOK, b.Zoom(req.Factor, pivot))
}

func (s *Server) navigate(c *gin.Context, b *browser.Browser) {
	var req NavigateRequest
	if !bind(c, &req) {
		return
	}
	c.JSON(http.StatusOK, b.Navigate(req.Position))
}

func (s *Server) search(c *gin.Context, b *browser.Browser) {
	var req SearchRequest
	if !bind(c, &req) {
		return
	}
	u := b.NavigateQuery(req.Query)
	c.JSON(http.StatusOK, SearchResponse{Update: u, Matches: b.SearchMatches()})
}

func (s *Server) next(c *gin.Context, b *browser.Browser) {
	c.JSON(http.StatusOK, b.Next())
}

func (s *Server) previous(c *gin.Context, b *browser.Browser) {
	c.JSON(http.StatusOK, b.Previous())
}

func (s *Server) highlight(c *gin.Context, b *browser.Browser) {
	var req HighlightRequest
	if !bind(c, &req) {
		return
	}
	alpha := req.Alpha
	if alpha == 0 {
		alpha = defaultHighlightAlpha
	}
	b.Highlight(req.Regions, alpha, req.AllTracks)
	c.JSON(http.StatusOK, b.Show())
}

func (s *Server) tooltip(c *gin.Context, b *browser.Browser) {
	var req TooltipRequest
	if !bind(c, &req) {
		return
	}
	if err := b.AddTooltipData(req.Name, req.Values, req.FeatureType); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b.Show())
}

func bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// Package site serves the portfolio page, its static assets and the
// same-origin mail relay.
package site

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/Zachkp/folio/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/web"
)

const (
	// DefaultRelayLimit allows one message every 12 seconds per client.
	DefaultRelayLimit = rate.Limit(1.0 / 12)
	DefaultRelayBurst = 3

	maxRelayBody    = 64 << 10
	shutdownTimeout = 10 * time.Second
)

type Options struct {
	Config  *config.Config
	Content *content.Content
	// Sender delivers relayed messages. Nil makes POST /relay answer 503.
	Sender contact.Sender
	Logger *zap.Logger
	Clock  clock.Clock

	RelayLimit rate.Limit
	RelayBurst int
}

type Server struct {
	cfg       *config.Config
	content   *content.Content
	sender    contact.Sender
	log       *zap.Logger
	clk       clock.Clock
	validator *contact.Validator
	limiter   *limiter
	router    *gin.Engine
}

// New builds the server and its router. Templates are parsed here so a
// broken template fails at startup.
func New(opts Options) (*Server, error) {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.RelayLimit == 0 {
		opts.RelayLimit = DefaultRelayLimit
	}
	if opts.RelayBurst == 0 {
		opts.RelayBurst = DefaultRelayBurst
	}
	if opts.Content == nil {
		c, err := content.Default()
		if err != nil {
			return nil, err
		}
		opts.Content = c
	}

	s := &Server{
		cfg:       opts.Config,
		content:   opts.Content,
		sender:    opts.Sender,
		log:       opts.Logger,
		clk:       opts.Clock,
		validator: contact.NewValidator(),
		limiter:   newLimiter(opts.Clock, opts.RelayLimit, opts.RelayBurst),
	}

	tmpl, err := s.templates()
	if err != nil {
		return nil, err
	}
	if s.router, err = s.routes(tmpl); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) templates() (*template.Template, error) {
	if dir := s.cfg.TemplatesDir; dir != "" {
		t, err := template.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parsing templates in %s: %w", dir, err)
		}
		return t, nil
	}
	t, err := template.ParseFS(web.FS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing embedded templates: %w", err)
	}
	return t, nil
}

func (s *Server) routes(tmpl *template.Template) (*gin.Engine, error) {
	r := gin.New()
	// X-Forwarded-For is only read from TrustedProxies; nil trusts none.
	if err := r.SetTrustedProxies(s.cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("setting trusted proxies: %w", err)
	}
	r.Use(
		gin.Recovery(),
		requestID(),
		requestLogger(s.log, newSalt()),
		securityHeaders(relayOrigin(s.clientRelayURL())),
		errorHandler(s.log),
	)
	r.SetHTMLTemplate(tmpl)

	if dir := s.cfg.StaticDir; dir != "" {
		r.Static("/static", dir)
	} else {
		static, _ := fs.Sub(web.FS, "static")
		r.StaticFS("/static", http.FS(static))
	}
	if dir := s.cfg.ImagesDir; dir != "" {
		if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
			r.Static("/images", dir)
		} else {
			s.log.Debug("images directory not found, /images not served", zap.String("dir", dir))
		}
	}

	r.GET("/", s.index)
	r.GET("/healthz", s.health)
	r.POST("/relay", rateLimit(s.limiter), s.relay)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not found", nil)
	})
	return r, nil
}

// clientRelayURL is where the page will post: the configured relay, or the
// client's built-in default when none is rendered.
func (s *Server) clientRelayURL() string {
	if s.cfg.RelayURL != "" {
		return s.cfg.RelayURL
	}
	return contact.DefaultRelayURL
}

type pageData struct {
	Owner    string
	RelayURL string
	Content  *content.Content
	Year     int
}

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", pageData{
		Owner:    s.cfg.OwnerName,
		RelayURL: s.cfg.RelayURL,
		Content:  s.content,
		Year:     s.clk.Now().Year(),
	})
}

func (s *Server) health(c *gin.Context) {
	success(c, http.StatusOK, "ok", gin.H{
		"relay": s.sender != nil && s.cfg.SMTP.Configured(),
	})
}

// Run serves on the configured port until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Zachkp/folio/config"
	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/mailer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, s contact.Submission) error {
	return m.Called(ctx, s).Error(0)
}

type fixture struct {
	srv    *Server
	sender *MockSender
	logs   *observer.ObservedLogs
	cfg    *config.Config
}

func newFixture(t *testing.T, mutate func(*config.Config, *Options)) *fixture {
	t.Helper()
	cfg := config.Default()
	cfg.ImagesDir = ""
	cfg.OwnerName = "Zach"
	cfg.RelayURL = "/relay"
	cfg.SMTP = config.SMTP{Host: "smtp.example.com", Port: "587", Username: "u", Password: "p", To: "inbox@example.com"}

	clk := clock.NewMock()
	clk.Set(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	core, logs := observer.New(zapcore.DebugLevel)
	sender := &MockSender{}

	opts := Options{Config: cfg, Sender: sender, Logger: zap.New(core), Clock: clk}
	if mutate != nil {
		mutate(cfg, &opts)
	}

	srv, err := New(opts)
	require.NoError(t, err)
	return &fixture{srv: srv, sender: sender, logs: logs, cfg: cfg}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)
	return w
}

func relayRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/relay", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var r Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
	return r
}

const validBody = `{"name":"  Ada ","email":"ada@example.com","message":"Hello there from Ada","_subject":"Portfolio Contact from Ada","_replyto":"ada@example.com"}`

func TestIndexRendersPage(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-owner="Zach"`)
	assert.Contains(t, body, `data-relay-url="/relay"`)
	for _, id := range []string{`id="greeting"`, `id="contactForm"`, `id="nameError"`, `id="scrollTop"`, `id="projects"`} {
		assert.Contains(t, body, id)
	}
	assert.Contains(t, body, "<strong>Muay Thai</strong>")
	assert.Contains(t, body, "&copy; 2024 Zach")

	csp := w.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "'wasm-unsafe-eval'")
	assert.Contains(t, csp, "connect-src 'self';")
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestIndexWithoutOverrides(t *testing.T) {
	f := newFixture(t, func(c *config.Config, _ *Options) {
		c.OwnerName = ""
		c.RelayURL = "https://formspree.io/f/movpkovj"
	})
	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "data-owner")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "connect-src 'self' https://formspree.io;")
}

func TestEmptyRelayAllowsClientDefault(t *testing.T) {
	f := newFixture(t, func(c *config.Config, _ *Options) { c.RelayURL = "" })
	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "data-relay-url")
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "connect-src 'self' https://formspree.io;")
}

func TestStaticAndHealth(t *testing.T) {
	f := newFixture(t, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/static/css/style.css", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), ".scroll-top.show")

	w = f.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	r := decode(t, w)
	assert.True(t, r.Success)
	assert.Equal(t, map[string]interface{}{"relay": true}, r.Data)

	w = f.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, decode(t, w).Success)
}

func TestImagesDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png"), 0o644))

	f := newFixture(t, func(c *config.Config, _ *Options) { c.ImagesDir = dir })
	w := f.do(httptest.NewRequest(http.MethodGet, "/images/logo.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestTemplatesDirOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<body data-owner="{{.Owner}}">custom</body>`), 0o644))

	f := newFixture(t, func(c *config.Config, _ *Options) { c.TemplatesDir = dir })
	w := f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, `<body data-owner="Zach">custom</body>`, w.Body.String())

	cfg := config.Default()
	cfg.TemplatesDir = filepath.Join(dir, "missing")
	_, err := New(Options{Config: cfg})
	assert.Error(t, err)
}

func TestRelayDelivers(t *testing.T) {
	f := newFixture(t, nil)
	f.sender.On("Send", mock.Anything, mock.MatchedBy(func(s contact.Submission) bool {
		return s.Name == "Ada" && s.Email == "ada@example.com" && s.Timestamp.Equal(time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC))
	})).Return(nil).Once()

	w := f.do(relayRequest(validBody))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	r := decode(t, w)
	assert.True(t, r.Success)
	assert.NotEmpty(t, r.RequestID)
	f.sender.AssertExpectations(t)
	assert.Equal(t, 1, f.logs.FilterMessage("relayed contact message").Len())
}

func TestRelayValidation(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(relayRequest(`{"name":"A","email":"nope","message":"short"}`))

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	r := decode(t, w)
	assert.Equal(t, contact.MsgFixErrors, r.Message)
	assert.Equal(t, []interface{}{
		"Name must be at least 2 characters",
		"Please enter a valid email address",
		"Message must be at least 10 characters",
	}, r.Error)
	f.sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestRelayBadBody(t *testing.T) {
	f := newFixture(t, nil)
	w := f.do(relayRequest(`{"name":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRelayUnavailable(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, o *Options) { o.Sender = nil })
	w := f.do(relayRequest(validBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f = newFixture(t, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(mailer.ErrNotConfigured)
	w = f.do(relayRequest(validBody))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRelaySendFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("535 auth failed"))

	w := f.do(relayRequest(validBody))

	require.Equal(t, http.StatusBadGateway, w.Code)
	r := decode(t, w)
	assert.False(t, r.Success)
	assert.NotContains(t, w.Body.String(), "535")
	assert.Equal(t, 1, f.logs.FilterMessage("request failed").Len())
}

func TestRelayRateLimited(t *testing.T) {
	f := newFixture(t, func(_ *config.Config, o *Options) { o.RelayBurst = 1 })
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	assert.Equal(t, http.StatusOK, f.do(relayRequest(validBody)).Code)
	w := f.do(relayRequest(validBody))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	f.sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestRelayRateLimitIgnoresForwardedFor(t *testing.T) {
	f := newFixture(t, nil)
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	var codes []int
	for i := 0; i < 10; i++ {
		req := relayRequest(validBody)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		codes = append(codes, f.do(req).Code)
	}

	assert.Equal(t, []int{200, 200, 200, 429, 429, 429, 429, 429, 429, 429}, codes)
	f.sender.AssertNumberOfCalls(t, "Send", DefaultRelayBurst)
}

func TestTrustedProxyForwardedFor(t *testing.T) {
	// httptest requests come from 192.0.2.1.
	f := newFixture(t, func(c *config.Config, _ *Options) { c.TrustedProxies = []string{"192.0.2.1"} })
	f.sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 5; i++ {
		req := relayRequest(validBody)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		assert.Equal(t, http.StatusOK, f.do(req).Code)
	}
}

func TestInvalidTrustedProxy(t *testing.T) {
	cfg := config.Default()
	cfg.ImagesDir = ""
	cfg.TrustedProxies = []string{"not-an-ip"}
	_, err := New(Options{Config: cfg})
	assert.ErrorContains(t, err, "trusted proxies")
}

func TestRequestLogPrivacy(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:5555"
	f.do(req)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("DNT", "1")
	f.do(req)

	f.do(httptest.NewRequest(http.MethodGet, "/static/css/style.css", nil))

	entries := f.logs.FilterMessage("request").All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Len(t, first["client"], 16)
	assert.NotContains(t, first["client"], "203.0.113.7")
	assert.NotContains(t, entries[1].ContextMap(), "client")
}

func TestHashIPStable(t *testing.T) {
	salt := []byte("salt")
	assert.Equal(t, hashIP(salt, "10.0.0.1"), hashIP(salt, "10.0.0.1"))
	assert.NotEqual(t, hashIP(salt, "10.0.0.1"), hashIP(salt, "10.0.0.2"))
	assert.NotEqual(t, hashIP(salt, "10.0.0.1"), hashIP([]byte("other"), "10.0.0.1"))
}

func TestLimiterRefills(t *testing.T) {
	clk := clock.NewMock()
	l := newLimiter(clk, DefaultRelayLimit, 1)

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"))

	clk.Add(13 * time.Second)
	assert.True(t, l.allow("a"))
}

// Package portfolio is the page controller. It binds every enhancement once
// the DOM is ready.
package portfolio

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/contact"
	"github.com/Zachkp/folio/internal/greeting"
	"github.com/Zachkp/folio/internal/navigation"
	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/styles"
	"github.com/Zachkp/folio/internal/ui"
)

// Body attributes the server renders to configure the page.
const (
	AttrOwner    = "data-owner"
	AttrRelayURL = "data-relay-url"
)

// Options configure the controller. Zero values fall back to defaults.
type Options struct {
	Owner    string
	RelayURL string
	// Sender replaces the HTTP relay client, mostly for tests.
	Sender     contact.Sender
	HTTPClient *http.Client

	Clock        clock.Clock
	Logger       *zap.Logger
	DismissAfter time.Duration
	Debounce     time.Duration
}

// Portfolio owns the page enhancements.
type Portfolio struct {
	doc  ui.Document
	win  ui.Window
	loop ui.Loop
	opts Options

	once     sync.Once
	notifier *notify.Notifier
	menu     *navigation.Menu
	form     *contact.Form
}

// New returns a controller for the page. Nothing is bound until Start or
// Init.
func New(doc ui.Document, win ui.Window, loop ui.Loop, opts Options) *Portfolio {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Portfolio{doc: doc, win: win, loop: loop, opts: opts}
}

// Start schedules Init for when the DOM is ready.
func (p *Portfolio) Start(ctx context.Context) {
	p.doc.OnReady(func() { p.Init(ctx) })
}

// Init binds every enhancement. Only the first call does anything. It must
// run on the loop.
func (p *Portfolio) Init(ctx context.Context) {
	p.once.Do(func() { p.init(ctx) })
}

func (p *Portfolio) init(ctx context.Context) {
	log := p.opts.Logger
	p.applyPageOverrides()

	greeting.Apply(p.doc, p.opts.Clock.Now(), p.opts.Owner)

	p.menu = navigation.Bind(p.doc)
	if p.menu == nil {
		log.Debug("navigation markup missing, menu not bound")
	}

	p.notifier = notify.New(p.doc, p.loop, p.opts.Clock, p.opts.DismissAfter)
	p.form = contact.Bind(ctx, p.doc, contact.Options{
		Sender:   p.sender(),
		Notifier: p.notifier,
		Loop:     p.loop,
		Clock:    p.opts.Clock,
		Logger:   log.Named("contact"),
		Debounce: p.opts.Debounce,
	})
	if p.form == nil {
		log.Debug("contact form missing, submission not bound")
	}

	if !scroll.BindEffects(p.doc, p.win) {
		log.Debug("scroll-to-top button missing, scroll effects not bound")
	}
	scroll.BindAnchors(p.doc, p.win)
	styles.Inject(p.doc)

	log.Info("portfolio initialized", zap.String("owner", p.owner()), zap.String("relay", p.opts.RelayURL))
}

func (p *Portfolio) applyPageOverrides() {
	body := p.doc.Body()
	if body == nil {
		return
	}
	if v := body.Attr(AttrOwner); v != "" {
		p.opts.Owner = v
	}
	if v := body.Attr(AttrRelayURL); v != "" {
		p.opts.RelayURL = v
	}
}

func (p *Portfolio) owner() string {
	if p.opts.Owner == "" {
		return greeting.DefaultOwner
	}
	return p.opts.Owner
}

func (p *Portfolio) sender() contact.Sender {
	if p.opts.Sender != nil {
		return p.opts.Sender
	}
	c := contact.NewRelayClient(p.opts.RelayURL, p.opts.HTTPClient)
	p.opts.RelayURL = c.Endpoint()
	return c
}

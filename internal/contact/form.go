// Package contact validates the portfolio contact form and submits it to a
// mail relay.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/Zachkp/folio/internal/notify"
	"github.com/Zachkp/folio/internal/timing"
	"github.com/Zachkp/folio/internal/ui"
)

// DefaultDebounce is the pause after typing before a field is re-validated.
const DefaultDebounce = 300 * time.Millisecond

// Notification texts.
const (
	MsgFixErrors = "Please fix the errors in the form before submitting."
	MsgSent      = "✅ Message sent successfully! I will reply to you soon."
	MsgFailed    = "❌ Failed to send message. Please try again later."
)

const (
	buttonLabel   = "Send Message"
	buttonLoading = `<i class="fas fa-spinner fa-spin"></i> Sending...`
)

// Notifier reports submission outcomes.
type Notifier interface {
	Show(message string, sev notify.Severity)
}

// Elements are the page nodes the form works with. Error spans and the
// button may be nil.
type Elements struct {
	Form   ui.Element
	Inputs map[Field]ui.Element
	Errors map[Field]ui.Element
	Submit ui.Element
}

// Lookup finds the contact form markup. It reports false when the form or
// any of its inputs is missing.
func Lookup(doc ui.Document) (Elements, bool) {
	el := Elements{
		Form:   doc.ByID("contactForm"),
		Inputs: map[Field]ui.Element{},
		Errors: map[Field]ui.Element{},
		Submit: doc.Query(".submit-btn"),
	}
	if el.Form == nil {
		return el, false
	}
	for _, f := range Fields {
		in := doc.ByID(string(f))
		if in == nil {
			return el, false
		}
		el.Inputs[f] = in
		if e := doc.ByID(string(f) + "Error"); e != nil {
			el.Errors[f] = e
		}
	}
	return el, true
}

// Options wire a Form to its collaborators.
type Options struct {
	Validator *Validator
	Sender    Sender
	Notifier  Notifier
	Loop      ui.Loop
	Clock     clock.Clock
	Logger    *zap.Logger
	Debounce  time.Duration
}

// Form validates the contact inputs as the user types and submits them to
// the relay.
type Form struct {
	ctx  context.Context
	el   Elements
	opts Options

	// inFlight is only touched on the loop.
	inFlight bool
}

// Bind attaches the form handlers. It returns nil when the page has no
// contact form. ctx bounds outstanding relay requests.
func Bind(ctx context.Context, doc ui.Document, opts Options) *Form {
	el, ok := Lookup(doc)
	if !ok {
		return nil
	}
	if opts.Validator == nil {
		opts.Validator = NewValidator()
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	f := &Form{ctx: ctx, el: el, opts: opts}
	for _, field := range Fields {
		field := field
		d := timing.NewDebouncer(opts.Clock, opts.Loop, opts.Debounce, func() { f.ValidateField(field) })
		el.Inputs[field].On(ui.Input, d.Handler())
	}
	el.Form.On(ui.Submit, func(ui.Event) { f.Submit() }, ui.PreventDefault())
	return f
}

// ValidateField checks one input and shows or clears its error.
func (f *Form) ValidateField(field Field) bool {
	err := f.opts.Validator.Check(field, f.el.Inputs[field].Value())
	if err == nil {
		f.clearError(field)
		return true
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		f.showError(field, fe.Message)
	} else {
		f.opts.Logger.Error("field validation failed", zap.String("field", string(field)), zap.Error(err))
	}
	return false
}

// Validate checks every input. It does not stop at the first failure.
func (f *Form) Validate() bool {
	ok := true
	for _, field := range Fields {
		if !f.ValidateField(field) {
			ok = false
		}
	}
	return ok
}

// Submit runs the submission flow. It must run on the loop; the relay call
// happens on its own goroutine and reports back through the loop.
func (f *Form) Submit() {
	if f.inFlight {
		return
	}
	if !f.Validate() {
		f.opts.Notifier.Show(MsgFixErrors, notify.Warning)
		return
	}

	sub := NewSubmission(
		f.el.Inputs[FieldName].Value(),
		f.el.Inputs[FieldEmail].Value(),
		f.el.Inputs[FieldMessage].Value(),
		f.opts.Clock.Now(),
	)

	f.inFlight = true
	f.setLoading(true)
	log := f.opts.Logger.With(zap.String("submission_id", sub.ID.String()))
	log.Debug("sending contact message")

	go func() {
		err := f.opts.Sender.Send(f.ctx, sub)
		f.opts.Loop.Post(func() { f.finish(log, err) })
	}()
}

func (f *Form) finish(log *zap.Logger, err error) {
	defer func() {
		f.setLoading(false)
		f.inFlight = false
	}()

	if err != nil {
		log.Error("error sending message", zap.Error(err))
		f.opts.Notifier.Show(MsgFailed, notify.Error)
		return
	}
	log.Info("contact message sent")
	f.opts.Notifier.Show(MsgSent, notify.Success)
	f.reset()
}

func (f *Form) reset() {
	for _, field := range Fields {
		f.el.Inputs[field].SetValue("")
	}
}

func (f *Form) setLoading(loading bool) {
	btn := f.el.Submit
	if btn == nil {
		return
	}
	if loading {
		btn.SetHTML(buttonLoading)
		btn.SetDisabled(true)
		return
	}
	btn.SetHTML(buttonLabel)
	btn.SetDisabled(false)
}

func (f *Form) showError(field Field, msg string) {
	if e := f.el.Errors[field]; e != nil {
		e.SetText(msg)
		e.SetStyle("display", "block")
	}
}

func (f *Form) clearError(field Field) {
	if e := f.el.Errors[field]; e != nil {
		e.SetText("")
		e.SetStyle("display", "none")
	}
}

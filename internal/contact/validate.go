package contact

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field identifies one of the three contact inputs.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists the inputs in form order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// Label is the capitalised field name used in messages.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldMessage:
		return "Message"
	}
	return string(f)
}

var rules = map[Field]string{
	FieldName:    "required,min=2",
	FieldEmail:   "required,simple_email",
	FieldMessage: "required,min=10",
}

// emailRegex accepts local@domain.tld with no whitespace and a single @.
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldError is a failed rule on one field. Message is what the page shows.
type FieldError struct {
	Field   Field
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Errors collects every failed field of a form.
type Errors []*FieldError

func (es Errors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator checks contact fields.
type Validator struct {
	v *validator.Validate
}

// NewValidator builds a Validator with the simple_email rule registered.
func NewValidator() *Validator {
	v := validator.New()
	_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Check validates the trimmed value of f. It returns nil or a *FieldError.
func (v *Validator) Check(f Field, value string) error {
	tag, ok := rules[f]
	if !ok {
		return fmt.Errorf("unknown contact field %q", f)
	}
	err := v.v.Var(strings.TrimSpace(value), tag)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validating %s: %w", f, err)
	}
	return &FieldError{Field: f, Message: message(f, verrs[0])}
}

// CheckAll validates every field and returns Errors when any fail. All
// fields are checked so each can show its own message.
func (v *Validator) CheckAll(name, email, msg string) error {
	values := map[Field]string{FieldName: name, FieldEmail: email, FieldMessage: msg}
	var errs Errors
	for _, f := range Fields {
		if err := v.Check(f, values[f]); err != nil {
			var fe *FieldError
			if !errors.As(err, &fe) {
				return err
			}
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func message(f Field, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", f.Label())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", f.Label(), e.Param())
	case "simple_email":
		return "Please enter a valid email address"
	default:
		return fmt.Sprintf("%s is invalid", f.Label())
	}
}

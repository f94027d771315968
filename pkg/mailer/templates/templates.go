package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Receipt is the template name for payment receipts.
const Receipt = "receipt"

// ReceiptData defines the fields receipt templates can use.
type ReceiptData struct {
	// Recipient
	Name  string
	Email string

	// Company info
	CompanyName string
	SupportURL  string

	// Payment
	EventType   string // payment.created, payment.completed, payment.failed
	PaymentID   string
	Amount      float64
	Currency    string
	Status      string
	Description string
	OccurredAt  time.Time
}

// Option pattern
type Option func(*ReceiptData)

func WithCompany(name string) Option   { return func(d *ReceiptData) { d.CompanyName = name } }
func WithSupportURL(url string) Option { return func(d *ReceiptData) { d.SupportURL = url } }
func WithRecipient(name, email string) Option {
	return func(d *ReceiptData) {
		d.Name = strings.TrimSpace(name)
		d.Email = strings.TrimSpace(email)
	}
}
func WithPayment(id string, amount float64, currency, status, description string) Option {
	return func(d *ReceiptData) {
		d.PaymentID = id
		d.Amount = amount
		d.Currency = strings.ToUpper(currency)
		d.Status = status
		d.Description = description
	}
}
func WithEvent(eventType string, at time.Time) Option {
	return func(d *ReceiptData) {
		d.EventType = eventType
		d.OccurredAt = at.UTC()
	}
}

func NewReceiptData(opts ...Option) ReceiptData {
	var d ReceiptData
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() || rv.IsZero() {
			return fallback
		}
		return value
	}
}

// money formats amounts with two decimals. VND has no minor unit.
func money(amount float64, currency string) string {
	if strings.EqualFold(currency, "VND") {
		return fmt.Sprintf("%.0f %s", amount, strings.ToUpper(currency))
	}
	return fmt.Sprintf("%.2f %s", amount, strings.ToUpper(currency))
}

func baseFuncs() map[string]any {
	return map[string]any{
		"formatTime": func(t time.Time, layout string) string { return t.Format(layout) },
		"upper":      strings.ToUpper,
		"default":    defaultFn,
		"money":      money,
	}
}

var (
	htmlFuncMap = htmpl.FuncMap(baseFuncs())
	textFuncMap = texttpl.FuncMap(baseFuncs())
)

// renderFile loads and renders a single template file from the embedded FS.
// isHTML indicates whether to use html/template (true) or text/template (false).
func renderFile(filename string, isHTML bool, data any) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)

	if isHTML {
		tpl, e := htmpl.New(filename).Funcs(htmlFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse html %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	} else {
		tpl, e := texttpl.New(filename).Funcs(textFuncMap).ParseFS(FS, filename)
		if e != nil {
			return "", fmt.Errorf("parse text %q: %w", filename, e)
		}
		err = tpl.Execute(&buf, data)
	}
	if err != nil {
		return "", fmt.Errorf("exec %q: %w", filename, err)
	}
	return buf.String(), nil
}

// Render loads and renders subject, text, and html templates for the given base name.
// Expects: <name>.subject.tmpl, <name>.text.tmpl, <name>.html.tmpl
func Render(name string, data any) (subject string, text string, html string, err error) {
	subject, err = renderFile(name+".subject.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	text, err = renderFile(name+".text.tmpl", false, data)
	if err != nil {
		return "", "", "", err
	}
	html, err = renderFile(name+".html.tmpl", true, data)
	if err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

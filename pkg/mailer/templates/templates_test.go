package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receipt(eventType string) ReceiptData {
	return NewReceiptData(
		WithCompany("Acme"),
		WithSupportURL("https://acme.test/support"),
		WithRecipient(" Ann ", "ann@example.com"),
		WithPayment("pay-1", 100.5, "usd", "PENDING", "coffee <beans>"),
		WithEvent(eventType, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)),
	)
}

func TestRenderReceiptCreated(t *testing.T) {
	subject, text, html, err := Render(Receipt, receipt("payment.created"))
	require.NoError(t, err)

	assert.Equal(t, "Acme: we received your payment of 100.50 USD", subject)
	assert.Contains(t, text, "Hi Ann,")
	assert.Contains(t, text, "Payment:     pay-1")
	assert.Contains(t, text, "01 March 2026, 10:30 UTC")
	assert.Contains(t, html, "coffee &lt;beans&gt;")
	assert.Contains(t, html, `href="https://acme.test/support"`)
}

func TestRenderReceiptSubjectPerEvent(t *testing.T) {
	subject, _, _, err := Render(Receipt, receipt("payment.completed"))
	require.NoError(t, err)
	assert.Equal(t, "Acme: payment of 100.50 USD completed", subject)

	subject, text, _, err := Render(Receipt, receipt("payment.failed"))
	require.NoError(t, err)
	assert.Equal(t, "Acme: payment of 100.50 USD failed", subject)
	assert.Contains(t, text, "could not be processed")
}

func TestRenderReceiptDefaults(t *testing.T) {
	d := NewReceiptData(WithPayment("pay-2", 50000, "vnd", "PENDING", ""), WithEvent("payment.created", time.Now()))
	subject, text, _, err := Render(Receipt, d)
	require.NoError(t, err)
	assert.Equal(t, "Payments: we received your payment of 50000 VND", subject)
	assert.Contains(t, text, "Hi there,")
	assert.NotContains(t, text, "Description:")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", ReceiptData{})
	assert.Error(t, err)
}

package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/stock-ledger-api/internal/application/report"
)

type captureDialer struct {
	msgs []*gomail.Message
	err  error
}

func (d *captureDialer) DialAndSend(m ...*gomail.Message) error {
	d.msgs = append(d.msgs, m...)
	return d.err
}

func digestMail() report.Mail {
	return report.Mail{
		To:      []string{"boss@example.com", "mgr@example.com"},
		Subject: "OurHouse Low Stock Alert - 1 Item(s) Need Attention",
		Text:    "SKU-001 - Tomatoes",
		HTML:    "<p>SKU-001</p>",
		Attachments: []report.Attachment{
			{Filename: "low-stock.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.3")},
		},
	}
}

func TestBuildMessage_MultipartConAdjunto(t *testing.T) {
	msg := buildMessage(`"OurHouse Inventory" <inventory@ourhouse.com>`, digestMail())

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()

	assert.Contains(t, raw, "To: boss@example.com, mgr@example.com")
	assert.Contains(t, raw, "multipart/alternative")
	assert.Contains(t, raw, "text/plain")
	assert.Contains(t, raw, "text/html")
	assert.Contains(t, raw, `filename="low-stock.pdf"`)
	assert.Contains(t, raw, "application/pdf")
}

func TestSend_UsaElDialer(t *testing.T) {
	d := &captureDialer{}
	s := &SMTPSender{from: "inventory@ourhouse.com", dialer: d}

	require.NoError(t, s.Send(context.Background(), digestMail()))
	assert.Len(t, d.msgs, 1)
	assert.Equal(t, []string{"inventory@ourhouse.com"}, d.msgs[0].GetHeader("From"))
}

func TestSend_Errores(t *testing.T) {
	d := &captureDialer{err: errors.New("535 auth failed")}
	s := &SMTPSender{from: "inventory@ourhouse.com", dialer: d}

	err := s.Send(context.Background(), digestMail())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "535 auth failed")

	assert.Error(t, s.Send(context.Background(), report.Mail{Subject: "x"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.msgs = nil
	assert.ErrorIs(t, s.Send(ctx, digestMail()), context.Canceled)
	assert.Empty(t, d.msgs)
}

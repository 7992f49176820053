package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

type fakeStock struct {
	items     []*entity.LowStockItem
	threshold int
}

func (f *fakeStock) List(context.Context) ([]*entity.StockView, error)     { return nil, nil }
func (f *fakeStock) Levels(context.Context) ([]*entity.StockLevel, error) { return nil, nil }
func (f *fakeStock) Delete(context.Context, string, string) (*entity.StockView, error) {
	return nil, nil
}
func (f *fakeStock) LowStock(_ context.Context, threshold int) ([]*entity.LowStockItem, error) {
	f.threshold = threshold
	return f.items, nil
}

type fakeUsers struct{ emails []string }

func (f *fakeUsers) Create(context.Context, *entity.User) error { return nil }
func (f *fakeUsers) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, nil
}
func (f *fakeUsers) ManagerEmails(context.Context) ([]string, error) { return f.emails, nil }

type fakeMail struct {
	sent []Mail
	err  error
}

func (f *fakeMail) Send(_ context.Context, m Mail) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m)
	return nil
}

type fakePDF struct{ err error }

func (f fakePDF) GenerateLowStockPDF(context.Context, []*entity.LowStockItem, time.Time) ([]byte, error) {
	return []byte("%PDF-1.3"), f.err
}

func lowItem(sku string, qty int64) *entity.LowStockItem {
	return &entity.LowStockItem{
		SKU: sku, ProductName: "Tomatoes", LocationName: "Main", BinCode: "A1",
		Qty: decimal.NewFromInt(qty), MinQty: decimal.NewFromInt(10), LeadTimeDays: 3,
	}
}

func newDigest(stock *fakeStock, users *fakeUsers, mail *fakeMail, pdf LowStockPDFGenerator) *DigestUseCase {
	uc := NewDigestUseCase(stock, users, mail, pdf, DigestConfig{Threshold: 10}, nil, zerolog.Nop())
	uc.now = func() time.Time { return time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC) }
	return uc
}

func TestSend_SinDestinatarios(t *testing.T) {
	mail := &fakeMail{}
	uc := newDigest(&fakeStock{items: []*entity.LowStockItem{lowItem("SKU-001", 2)}}, &fakeUsers{}, mail, nil)

	res, err := uc.Send(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, ReasonNoRecipients, res.Reason)
	assert.Empty(t, mail.sent)
}

func TestSend_EnviaTextoHTMLYPDF(t *testing.T) {
	stock := &fakeStock{items: []*entity.LowStockItem{lowItem("SKU-001", 2), lowItem("SKU-002", 7)}}
	mail := &fakeMail{}
	uc := newDigest(stock, &fakeUsers{emails: []string{"boss@example.com", "mgr@example.com"}}, mail, fakePDF{})

	res, err := uc.Send(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.ItemCount)
	assert.Equal(t, 2, res.RecipientCount)
	assert.Equal(t, 10, stock.threshold)

	require.Len(t, mail.sent, 1)
	m := mail.sent[0]
	assert.Equal(t, []string{"boss@example.com", "mgr@example.com"}, m.To)
	assert.Equal(t, "OurHouse Low Stock Alert - 2 Item(s) Need Attention", m.Subject)
	assert.Contains(t, m.Text, "SKU-001 - Tomatoes")
	assert.Contains(t, m.Text, "Current: 2 | Minimum: 10 | Lead Time: 3 days")
	assert.Contains(t, m.HTML, "2 items below minimum stock threshold")
	assert.Contains(t, m.HTML, "#fca5a5")
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, "low-stock-2026-03-02.pdf", m.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", m.Attachments[0].ContentType)
}

func TestSend_TodoNormalSinAdjunto(t *testing.T) {
	mail := &fakeMail{}
	uc := newDigest(&fakeStock{}, &fakeUsers{emails: []string{"boss@example.com"}}, mail, fakePDF{})

	res, err := uc.Send(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "OurHouse Daily Inventory Report - All Normal", mail.sent[0].Subject)
	assert.Contains(t, mail.sent[0].Text, "All Stock Levels Normal")
	assert.Empty(t, mail.sent[0].Attachments)
}

func TestSend_FalloDePDFNoImpideElEnvio(t *testing.T) {
	mail := &fakeMail{}
	uc := newDigest(&fakeStock{items: []*entity.LowStockItem{lowItem("SKU-001", 1)}},
		&fakeUsers{emails: []string{"boss@example.com"}}, mail, fakePDF{err: errors.New("font missing")})

	res, err := uc.Send(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, mail.sent, 1)
	assert.Empty(t, mail.sent[0].Attachments)
}

func TestSend_FalloSMTP(t *testing.T) {
	mail := &fakeMail{err: errors.New("dial tcp: connection refused")}
	uc := newDigest(&fakeStock{}, &fakeUsers{emails: []string{"boss@example.com"}}, mail, nil)

	res, err := uc.Send(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Email sending failed", res.Error)
}

func TestRenderBodies_EscapaHTML(t *testing.T) {
	item := lowItem("SKU-<b>", 3)
	_, html, err := renderBodies([]*entity.LowStockItem{item}, time.Now())
	require.NoError(t, err)
	assert.NotContains(t, html, "SKU-<b>")
	assert.Contains(t, html, "SKU-&lt;b&gt;")
}

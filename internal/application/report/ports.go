package report

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// Attachment adjunto de un correo.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Mail mensaje con cuerpo de texto plano y alternativa HTML.
type Mail struct {
	To          []string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// MailSender puerto de envío de correo (implementado por infrastructure/mail).
type MailSender interface {
	Send(ctx context.Context, m Mail) error
}

// LowStockPDFGenerator genera el PDF del reporte de stock bajo (implementado por infrastructure/pdf).
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, items []*entity.LowStockItem, generatedAt time.Time) ([]byte, error)
}

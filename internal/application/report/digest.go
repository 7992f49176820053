package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger-api/internal/application/dto"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/metrics"
)

// ReasonNoRecipients no hay usuarios Manager/Admin a quien enviar el resumen.
const ReasonNoRecipients = "No recipients"

// DigestConfig parámetros del resumen de stock bajo.
type DigestConfig struct {
	Threshold int            // mínimo usado cuando el producto no define min_qty
	Location  *time.Location // zona horaria de la fecha impresa
}

// DigestUseCase arma y envía el resumen diario de stock bajo.
type DigestUseCase struct {
	stock repository.StockRepository
	users repository.UserRepository
	mail  MailSender
	pdf   LowStockPDFGenerator // nil = sin adjunto
	cfg   DigestConfig
	rec   *metrics.Recorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewDigestUseCase construye el caso de uso. pdf puede ser nil.
func NewDigestUseCase(
	stock repository.StockRepository,
	users repository.UserRepository,
	mail MailSender,
	pdf LowStockPDFGenerator,
	cfg DigestConfig,
	rec *metrics.Recorder,
	log zerolog.Logger,
) *DigestUseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &DigestUseCase{
		stock: stock, users: users, mail: mail, pdf: pdf,
		cfg: cfg, rec: rec, log: log, now: time.Now,
	}
}

// LowStock filas por debajo de COALESCE(min_qty, umbral).
func (uc *DigestUseCase) LowStock(ctx context.Context) ([]dto.LowStockResponse, error) {
	items, err := uc.stock.LowStock(ctx, uc.cfg.Threshold)
	if err != nil {
		return nil, err
	}
	out := make([]dto.LowStockResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LowStockResponse{
			SKU:          it.SKU,
			ProductName:  it.ProductName,
			Description:  it.Description,
			LocationName: it.LocationName,
			BinCode:      it.BinCode,
			Qty:          it.Qty,
			MinQty:       it.MinQty,
			LeadTimeDays: it.LeadTimeDays,
		})
	}
	return out, nil
}

// Send envía el resumen a todos los Manager/Admin. Se envía también cuando no hay
// stock bajo ("All Normal"). Los errores de lectura se devuelven; un fallo de SMTP
// se informa en la respuesta con Success=false.
func (uc *DigestUseCase) Send(ctx context.Context) (*dto.DigestResponse, error) {
	items, err := uc.stock.LowStock(ctx, uc.cfg.Threshold)
	if err != nil {
		uc.rec.DigestSent(metrics.OutcomeError)
		return nil, err
	}
	recipients, err := uc.users.ManagerEmails(ctx)
	if err != nil {
		uc.rec.DigestSent(metrics.OutcomeError)
		return nil, err
	}
	if len(recipients) == 0 {
		uc.log.Warn().Int("items", len(items)).Msg("resumen de stock bajo sin destinatarios")
		uc.rec.DigestSent(metrics.OutcomeSkipped)
		return &dto.DigestResponse{Success: false, Reason: ReasonNoRecipients, ItemCount: len(items)}, nil
	}

	at := uc.now().In(uc.cfg.Location)
	text, html, err := renderBodies(items, at)
	if err != nil {
		uc.rec.DigestSent(metrics.OutcomeError)
		return nil, err
	}
	msg := Mail{To: recipients, Subject: subject(len(items)), Text: text, HTML: html}

	if uc.pdf != nil && len(items) > 0 {
		doc, err := uc.pdf.GenerateLowStockPDF(ctx, items, at)
		if err != nil {
			// El correo sale igual, sin adjunto.
			uc.log.Error().Err(err).Msg("no se pudo generar el PDF de stock bajo")
		} else {
			msg.Attachments = append(msg.Attachments, Attachment{
				Filename:    fmt.Sprintf("low-stock-%s.pdf", at.Format("2006-01-02")),
				ContentType: "application/pdf",
				Data:        doc,
			})
		}
	}

	if err := uc.mail.Send(ctx, msg); err != nil {
		uc.log.Error().Err(err).Strs("to", recipients).Msg("fallo el envío del resumen de stock bajo")
		uc.rec.DigestSent(metrics.OutcomeError)
		return &dto.DigestResponse{Success: false, Error: "Email sending failed", ItemCount: len(items)}, nil
	}
	uc.log.Info().Int("items", len(items)).Int("recipients", len(recipients)).Msg("resumen de stock bajo enviado")
	uc.rec.DigestSent(metrics.OutcomeOK)
	return &dto.DigestResponse{Success: true, ItemCount: len(items), RecipientCount: len(recipients)}, nil
}

// Run adaptador para el scheduler: ejecuta Send y solo registra el resultado.
func (uc *DigestUseCase) Run(ctx context.Context) {
	res, err := uc.Send(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("resumen programado de stock bajo falló")
		return
	}
	if !res.Success {
		uc.log.Warn().Str("reason", res.Reason).Str("error", res.Error).Msg("resumen programado no enviado")
	}
}

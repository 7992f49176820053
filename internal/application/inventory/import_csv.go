package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	domaininv "github.com/jhoicas/stock-ledger-api/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Tipos de importación CSV.
const (
	ImportShipment  = "shipment"
	ImportReconcile = "reconcile"
	ImportCatalog   = "catalog"
)

// BatchRunner ejecuta comandos en una sola transacción.
type BatchRunner interface {
	RunBatch(ctx context.Context, cmds []Command) (int, error)
}

// ImportInput archivo CSV a importar.
type ImportInput struct {
	Type        string // shipment (default), reconcile, catalog
	Charset     string // utf-8 (default), windows-1252, iso-8859-1
	Source      io.Reader
	PerformedBy string
	Reference   string
}

// ImportResult resumen de la importación.
type ImportResult struct {
	Imported int
	Message  string
}

// ImportUseCase importa CSV: resuelve catálogo (buscar-o-crear) y pasa las cantidades
// por el motor de movimientos para que cada cambio quede en el ledger.
type ImportUseCase struct {
	catalog   repository.CatalogResolver
	movements BatchRunner
	log       zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(catalog repository.CatalogResolver, movements BatchRunner, log zerolog.Logger) *ImportUseCase {
	return &ImportUseCase{catalog: catalog, movements: movements, log: log}
}

type csvRow map[string]string

func (r csvRow) get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

// qty acepta separador de miles ("1,000"). Vacío o inválido -> ok=false.
func (r csvRow) qty() (decimal.Decimal, bool) {
	raw := strings.ReplaceAll(r.get("qty", "quantity"), ",", "")
	if raw == "" {
		return decimal.Zero, false
	}
	q, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return q, true
}

// Import procesa el CSV completo. Las filas incompletas se omiten; un error de
// movimiento revierte todas las cantidades del archivo.
func (uc *ImportUseCase) Import(ctx context.Context, in ImportInput) (*ImportResult, error) {
	kind := strings.ToLower(strings.TrimSpace(in.Type))
	if kind == "" {
		kind = ImportShipment
	}
	if kind != ImportShipment && kind != ImportReconcile && kind != ImportCatalog {
		return nil, domain.NewValidationError("unknown import type %q", in.Type)
	}

	rows, err := readRows(in.Source, in.Charset)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &domain.ValidationError{Message: "CSV appears empty"}
	}

	var imported int
	if kind == ImportCatalog {
		imported, err = uc.importCatalog(ctx, rows)
	} else {
		imported, err = uc.importStock(ctx, kind, rows, in)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("type", kind).Int("rows", len(rows)).Int("imported", imported).Msg("importación CSV completada")
	return &ImportResult{Imported: imported, Message: fmt.Sprintf("Import complete (%s)", kind)}, nil
}

func (uc *ImportUseCase) importCatalog(ctx context.Context, rows []csvRow) (int, error) {
	n := 0
	for _, row := range rows {
		spec := productSpec(row)
		if spec.Name == "" && spec.SKU == "" {
			continue
		}
		if spec.Name == "" {
			spec.Name = spec.SKU
		}
		if _, _, err := uc.catalog.ResolveProduct(ctx, spec); err != nil {
			return 0, fmt.Errorf("resolver producto %q: %w", spec.Name, err)
		}
		n++
	}
	return n, nil
}

func (uc *ImportUseCase) importStock(ctx context.Context, kind string, rows []csvRow, in ImportInput) (int, error) {
	cmds := make([]Command, 0, len(rows))
	for _, row := range rows {
		location := row.get("location")
		bin := domaininv.CanonicalBinCode(row.get("bin", "bin_code"))
		spec := productSpec(row)
		q, ok := row.qty()
		if location == "" || bin == "" || spec.Name == "" || !ok {
			continue
		}
		// shipment exige qty > 0; reconcile acepta 0 (vaciar el bin)
		if q.IsNegative() || (kind == ImportShipment && q.IsZero()) {
			continue
		}

		locationID, err := uc.catalog.ResolveLocation(ctx, location)
		if err != nil {
			return 0, fmt.Errorf("resolver ubicación %q: %w", location, err)
		}
		binID, err := uc.catalog.ResolveBin(ctx, locationID, bin)
		if err != nil {
			return 0, fmt.Errorf("resolver bin %q: %w", bin, err)
		}
		productID, _, err := uc.catalog.ResolveProduct(ctx, spec)
		if err != nil {
			return 0, fmt.Errorf("resolver producto %q: %w", spec.Name, err)
		}

		mi := MovementInput{ProductID: productID, BinID: binID, Qty: q, Reference: in.Reference, User: in.PerformedBy}
		if kind == ImportShipment {
			cmds = append(cmds, NewReceiveCommand(mi))
		} else {
			cmds = append(cmds, NewCountCommand(mi))
		}
	}
	return uc.movements.RunBatch(ctx, cmds)
}

func productSpec(row csvRow) repository.ProductSpec {
	return repository.ProductSpec{
		SKU:         row.get("sku"),
		Name:        row.get("product", "name"),
		Description: row.get("description"),
		Unit:        domaininv.NormalizeUnit(row.get("unit")),
	}
}

// readRows decodifica el charset indicado y devuelve las filas como mapas cabecera->valor.
func readRows(src io.Reader, charset string) ([]csvRow, error) {
	if src == nil {
		return nil, &domain.ValidationError{Message: "No file uploaded"}
	}
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
	case "windows-1252", "cp1252":
		src = transform.NewReader(src, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, domain.NewValidationError("unsupported charset %q", charset)
	}

	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewValidationError("invalid CSV: %v", err)
	}
	for i := range header {
		header[i] = domaininv.CleanHeader(header[i])
	}

	var rows []csvRow
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, domain.NewValidationError("invalid CSV: %v", err)
		}
		row := make(csvRow, len(header))
		for i, v := range rec {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

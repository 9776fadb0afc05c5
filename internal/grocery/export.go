package grocery

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/mealboard/internal/blob"
	"github.com/fdg312/mealboard/internal/planning"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportOptions configures an Exporter. A nil Store means exports are only
// served by the download endpoint.
type ExportOptions struct {
	Store           blob.Store
	PresignTTL      time.Duration
	PreferPublicURL bool
	MaxItems        int
	PublicBaseURL   string
}

// Exporter renders grocery lists to files and publishes them.
type Exporter struct {
	opts   ExportOptions
	logger *zap.Logger
}

// NewExporter creates a new exporter.
func NewExporter(opts ExportOptions, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	opts.PublicBaseURL = strings.TrimSuffix(opts.PublicBaseURL, "/")
	return &Exporter{opts: opts, logger: logger}
}

// ParseFormat validates an export format; empty means csv.
func ParseFormat(raw string) (string, error) {
	format := strings.ToLower(strings.TrimSpace(raw))
	switch format {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF:
		return format, nil
	default:
		return "", fmt.Errorf("%w: unsupported format %q", planning.ErrValidation, raw)
	}
}

// ContentType returns the MIME type of a format.
func ContentType(format string) string {
	if format == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Render produces the file contents of list in format.
func (e *Exporter) Render(list ListDTO, format string) ([]byte, error) {
	if e.opts.MaxItems > 0 && len(list.Items) > e.opts.MaxItems {
		return nil, fmt.Errorf("%w: list has %d items, export limit is %d", planning.ErrValidation, len(list.Items), e.opts.MaxItems)
	}

	switch format {
	case FormatCSV:
		return renderCSV(list)
	case FormatPDF:
		return renderPDF(list)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", planning.ErrValidation, format)
	}
}

// Publish renders list and returns a URL it can be fetched from.
// requestBaseURL is used for the download link when no store is configured.
func (e *Exporter) Publish(ctx context.Context, list ListDTO, format, requestBaseURL string) (ExportResponse, error) {
	data, err := e.Render(list, format)
	if err != nil {
		return ExportResponse{}, err
	}

	if e.opts.Store == nil {
		base := e.opts.PublicBaseURL
		if base == "" {
			base = strings.TrimSuffix(requestBaseURL, "/")
		}
		return ExportResponse{
			URL:    fmt.Sprintf("%s/v1/grocery-lists/%s/export?format=%s", base, list.ID, format),
			Format: format,
		}, nil
	}

	key := fmt.Sprintf("grocery-lists/%s/%s.%s", list.ID, uuid.New().String(), format)
	size, err := e.opts.Store.PutObject(ctx, key, data, ContentType(format))
	if err != nil {
		return ExportResponse{}, fmt.Errorf("failed to upload export: %w", err)
	}
	e.logger.Info("grocery list exported",
		zap.String("list_id", list.ID),
		zap.String("format", format),
		zap.String("key", key),
		zap.Int64("bytes", size),
	)

	if e.opts.PreferPublicURL {
		return ExportResponse{URL: e.opts.Store.PublicURL(key), Format: format}, nil
	}

	url, err := e.opts.Store.PresignGet(ctx, key, e.opts.PresignTTL)
	if err != nil {
		return ExportResponse{}, fmt.Errorf("failed to presign export: %w", err)
	}
	expires := time.Now().UTC().Add(e.opts.PresignTTL)
	return ExportResponse{URL: url, Format: format, ExpiresAt: &expires}, nil
}

func renderCSV(list ListDTO) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"category", "name", "quantity", "notes", "checked", "source"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, group := range GroupByCategory(list.Items) {
		for _, item := range group.Items {
			row := []string{
				group.Category,
				item.Name,
				item.Quantity,
				item.Notes,
				strconv.FormatBool(item.Checked),
				item.Source,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func renderPDF(list ListDTO) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(list.Name))
	pdf.Ln(8)

	if list.StartDate != nil && list.EndDate != nil {
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 8, fmt.Sprintf("%s - %s", *list.StartDate, *list.EndDate))
		pdf.Ln(10)
	}

	for _, group := range GroupByCategory(list.Items) {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 8, tr(categoryTitle(group.Category)))
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, item := range group.Items {
			box := ""
			if item.Checked {
				box = "x"
			}
			pdf.CellFormat(6, 6, box, "1", 0, "C", false, 0, "")
			pdf.CellFormat(4, 6, "", "", 0, "", false, 0, "")
			pdf.CellFormat(80, 6, tr(item.Name), "", 0, "L", false, 0, "")
			pdf.CellFormat(30, 6, tr(item.Quantity), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(item.Notes), "", 1, "L", false, 0, "")
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func categoryTitle(c string) string {
	if c == "" {
		return planning.CategoryOther
	}
	return strings.ToUpper(c[:1]) + c[1:]
}

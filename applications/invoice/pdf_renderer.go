package invoice

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer draws a Layout onto a single A4 page with gofpdf.
type PDFRenderer struct {
	compress bool
}

func NewPDFRenderer(compress bool) *PDFRenderer {
	return &PDFRenderer{compress: compress}
}

// Render returns the PDF bytes and page count. The creation date is pinned to
// generatedAt so equal inputs give equal output.
func (r *PDFRenderer) Render(l *Layout, images map[Asset][]byte, generatedAt time.Time) ([]byte, int, error) {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(generatedAt)
	pdf.SetModificationDate(generatedAt)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	registered := map[Asset]string{}
	for _, asset := range allAssets {
		data, ok := images[asset]
		if !ok {
			continue
		}
		imageType, err := detectImageType(data)
		if err != nil {
			return nil, 0, fmt.Errorf("asset %s: %w", asset, err)
		}
		pdf.RegisterImageOptionsReader(string(asset), gofpdf.ImageOptions{ImageType: imageType}, bytes.NewReader(data))
		registered[asset] = imageType
	}
	if err := pdf.Error(); err != nil {
		return nil, 0, fmt.Errorf("failed to register images: %w", err)
	}

	for _, op := range l.Ops {
		switch op.Kind {
		case OpLine:
			pdf.SetDrawColor(op.Color.R, op.Color.G, op.Color.B)
			pdf.SetLineWidth(op.LineWidth)
			pdf.Line(op.X, op.Y, op.X2, op.Y2)
		case OpRect:
			pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
			pdf.RoundedRect(op.X, op.Y, op.W, op.H, op.R, "1234", "F")
		case OpCircle:
			pdf.SetFillColor(op.Color.R, op.Color.G, op.Color.B)
			pdf.Circle(op.X, op.Y, op.R, "F")
		case OpText:
			if op.Text == "" {
				continue
			}
			pdf.SetFont(op.Font.Family, op.Font.Style, op.Font.Size)
			pdf.SetTextColor(op.Color.R, op.Color.G, op.Color.B)
			txt := tr(op.Text)
			x := op.X
			switch op.Align {
			case AlignRight:
				x -= pdf.GetStringWidth(txt)
			case AlignCenter:
				x -= pdf.GetStringWidth(txt) / 2
			}
			pdf.Text(x, op.Y, txt)
		case OpImage:
			imageType, ok := registered[op.Asset]
			if !ok {
				return nil, 0, fmt.Errorf("asset %s was not loaded", op.Asset)
			}
			pdf.ImageOptions(string(op.Asset), op.X, op.Y, op.W, op.H, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, 0, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), pdf.PageCount(), nil
}

func detectImageType(data []byte) (string, error) {
	switch http.DetectContentType(data) {
	case "image/png":
		return "png", nil
	case "image/jpeg":
		return "jpg", nil
	case "image/gif":
		return "gif", nil
	default:
		return "", fmt.Errorf("unsupported image format")
	}
}

// fontMeasurer measures text with the core font metrics used by the renderer.
// It is not safe for concurrent use; make one per composition.
type fontMeasurer struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func newFontMeasurer() *fontMeasurer {
	pdf := gofpdf.New("P", "pt", "A4", "")
	return &fontMeasurer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (m *fontMeasurer) Width(text string, f Font) float64 {
	m.pdf.SetFont(f.Family, f.Style, f.Size)
	return m.pdf.GetStringWidth(m.tr(text))
}

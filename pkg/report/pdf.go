package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mchmarny/reval/pkg/data"
	"github.com/mchmarny/reval/pkg/net"
)

const (
	dirMode = 0700

	pageMarginMM   = 18
	titleFontSize  = 22
	headerFontSize = 14
	bodyFontSize   = 10

	footerText = "This report was generated by reVal. The analysis is based on available " +
		"listing data and market information. For professional real estate advice, " +
		"consult with a licensed real estate professional."
)

// Title, section, and factor header colors.
var (
	titleColor   = [3]int{46, 134, 171}
	sectionColor = [3]int{162, 59, 114}
	factorColor  = [3]int{241, 143, 1}
	fillColor    = [3]int{240, 240, 240}
)

// Generator renders property valuation reports as PDF files.
type Generator struct {
	outDir string
}

// NewGenerator returns a report generator writing into outDir,
// creating the directory if needed.
func NewGenerator(outDir string) (*Generator, error) {
	if outDir == "" {
		return nil, fmt.Errorf("output directory required")
	}
	if err := os.MkdirAll(outDir, dirMode); err != nil {
		return nil, fmt.Errorf("failed to create output dir %s: %w", outDir, err)
	}
	return &Generator{outDir: outDir}, nil
}

// Generate renders the valuation report and returns the path of the
// created PDF file.
func (g *Generator) Generate(p *data.Property, v *data.Valuation) (string, error) {
	if p == nil || v == nil {
		return "", fmt.Errorf("property and valuation are both required")
	}

	path := filepath.Join(g.outDir, reportFileName(p.Address))

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetTitle("reVal Property Analysis Report", false)
	pdf.SetMargins(pageMarginMM, pageMarginMM, pageMarginMM)
	pdf.AddPage()

	g.writeHeader(pdf, p)
	g.writePhoto(pdf, p)
	g.writeSummary(pdf, p, v)
	g.writeFactors(pdf, v)
	g.writeFooter(pdf)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("failed to write PDF %s: %w", path, err)
	}

	return path, nil
}

func (g *Generator) writeHeader(pdf *fpdf.Fpdf, p *data.Property) {
	pdf.SetFont("Helvetica", "B", titleFontSize)
	pdf.SetTextColor(titleColor[0], titleColor[1], titleColor[2])
	pdf.CellFormat(0, 12, "reVal Property Analysis Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, fmt.Sprintf("Property: %s, %s, %s", p.Address, p.City, p.State), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Report Date: %s", time.Now().Format("January 2, 2006")), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetDrawColor(128, 128, 128)
	x, y := pdf.GetXY()
	w, _ := pdf.GetPageSize()
	pdf.Line(x, y, w-pageMarginMM, y)
	pdf.Ln(6)
}

func (g *Generator) writePhoto(pdf *fpdf.Fpdf, p *data.Property) {
	if p.PhotoURL == "" {
		return
	}

	imgType := imageType(p.PhotoURL)
	if imgType == "" {
		return
	}

	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("reval_photo_%s.%s", p.ZPID, strings.ToLower(imgType)))
	defer os.Remove(tmp)

	if err := net.Download(p.PhotoURL, tmp); err != nil {
		slog.Warn("skipping report cover photo", "url", p.PhotoURL, "error", err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: imgType, ReadDpi: true}
	pdf.ImageOptions(tmp, pdf.GetX(), pdf.GetY(), 80, 0, true, opts, 0, "")
	pdf.Ln(4)
}

func (g *Generator) writeSummary(pdf *fpdf.Fpdf, p *data.Property, v *data.Valuation) {
	g.sectionHeader(pdf, "Property Summary")

	rows := [][2]string{
		{"Property Type", orNA(p.PropertyType)},
		{"Bedrooms", intOrNA(p.Bedrooms)},
		{"Bathrooms", floatOrNA(p.Bathrooms, "%.1f")},
		{"Square Feet", floatOrNA(p.LivingArea, "%.0f")},
		{"Lot Size", floatOrNA(p.LotArea, "%.0f sqft")},
		{"Year Built", intOrNA(p.YearBuilt)},
		{"Estimated Value", floatOrNA(p.Zestimate, "$%.0f")},
		{"Composite Score", fmt.Sprintf("%.1f / 100", v.Composite)},
		{"Confidence", fmt.Sprintf("%.0f%%", v.Confidence*100)},
	}

	pdf.SetFont("Helvetica", "", bodyFontSize)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetFillColor(fillColor[0], fillColor[1], fillColor[2])

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", bodyFontSize)
		pdf.CellFormat(50, 7, row[0], "1", 0, "L", true, 0, "")
		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.CellFormat(76, 7, row[1], "1", 1, "L", false, 0, "")
	}
	pdf.Ln(8)
}

func (g *Generator) writeFactors(pdf *fpdf.Fpdf, v *data.Valuation) {
	g.sectionHeader(pdf, "Quality Factors Analysis")

	for i, fs := range v.Factors {
		pdf.SetFont("Helvetica", "B", headerFontSize-2)
		pdf.SetTextColor(factorColor[0], factorColor[1], factorColor[2])
		pdf.CellFormat(0, 8, fmt.Sprintf("%d. %s", i+1, displayName(fs.Factor)), "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", bodyFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.CellFormat(0, 5, fmt.Sprintf("Score: %.0f/100 (weight %.0f%%)", fs.Score, fs.Weight*100), "", 1, "L", false, 0, "")

		if fs.Rationale != "" {
			pdf.MultiCell(0, 5, fs.Rationale, "", "L", false)
		}
		pdf.Ln(3)
	}
}

func (g *Generator) writeFooter(pdf *fpdf.Fpdf) {
	pdf.Ln(6)
	pdf.SetDrawColor(128, 128, 128)
	x, y := pdf.GetXY()
	w, _ := pdf.GetPageSize()
	pdf.Line(x, y, w-pageMarginMM, y)
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "I", bodyFontSize-2)
	pdf.SetTextColor(96, 96, 96)
	pdf.MultiCell(0, 4, footerText, "", "L", false)
}

func (g *Generator) sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", headerFontSize)
	pdf.SetTextColor(sectionColor[0], sectionColor[1], sectionColor[2])
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func reportFileName(address string) string {
	clean := strings.NewReplacer(" ", "_", "/", "-", ",", "", "#", "").Replace(address)
	if clean == "" {
		clean = "Unknown_Address"
	}
	return fmt.Sprintf("reVal_Report_%s_%s.pdf", clean, time.Now().Format("20060102_150405"))
}

func imageType(url string) string {
	u := strings.ToLower(url)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch {
	case strings.HasSuffix(u, ".jpg"), strings.HasSuffix(u, ".jpeg"):
		return "JPG"
	case strings.HasSuffix(u, ".png"):
		return "PNG"
	default:
		return ""
	}
}

func displayName(factor string) string {
	if factor == "" {
		return factor
	}
	return strings.ToUpper(factor[:1]) + factor[1:]
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func intOrNA(v int) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%d", v)
}

func floatOrNA(v float64, format string) string {
	if v <= 0 {
		return "N/A"
	}
	return fmt.Sprintf(format, v)
}

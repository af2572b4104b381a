// Package export provides functionality for exporting pack configurations
// to various file formats.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/loadwise/vanpack/internal/model"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

// itemColors cycles through a standard categorical palette so adjacent
// parcels stay distinguishable on the floor plan.
var itemColors = []itemColor{
	{R: 31, G: 119, B: 180},  // steel blue
	{R: 255, G: 127, B: 14},  // amber
	{R: 44, G: 160, B: 44},   // leaf green
	{R: 214, G: 39, B: 40},   // brick red
	{R: 148, G: 103, B: 189}, // violet
	{R: 140, G: 86, B: 75},   // umber
	{R: 23, G: 190, B: 207},  // teal
	{R: 188, G: 189, B: 34},  // olive
}

// Page layout (A4 landscape, 297x210 mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	pageMargin   = 12.0
	headerHeight = 14.0
	legendHeight = 18.0
	drawAreaTop  = pageMargin + headerHeight + 4.0
)

// ExportPDF generates a PDF load plan for a configuration. Each bin gets
// its own page with an X-Z floor plan (bird's eye view), the center of
// gravity marked against its target, and a legend; a summary page closes
// the document.
func ExportPDF(path string, configuration model.Configuration, stats model.Statistics) error {
	if len(configuration) == 0 {
		return fmt.Errorf("no bins to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, pageMargin)

	for i, bin := range configuration {
		pdf.AddPage()
		renderBinPage(pdf, bin, i+1)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, configuration, stats)

	return pdf.OutputFileAndClose(path)
}

// renderBinPage draws a single bin's floor plan on the current PDF page.
// X runs across the page, Z down the page.
func renderBinPage(pdf *fpdf.Fpdf, bin *model.Bin, binNum int) {
	binW := bin.Width().InexactFloat64()
	binD := bin.Depth().InexactFloat64()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pageMargin, pageMargin)
	title := fmt.Sprintf("Bin %d: %s (%s x %s x %s m)", binNum, bin.Model.Name,
		bin.Model.Size.X, bin.Model.Size.Y, bin.Model.Size.Z)
	pdf.CellFormat(pageWidth-pageMargin-pageMargin, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(pageMargin, pageMargin+headerHeight)
	cog := bin.CenterOfGravity()
	statsLine := fmt.Sprintf("Items: %d | Weight: %s / %s kg | CoG: (%s, %s, %s)",
		len(bin.Items), bin.Weight, bin.MaxWeight(), cog.X, cog.Y, cog.Z)
	pdf.CellFormat(pageWidth-pageMargin-pageMargin, 5, statsLine, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - pageMargin - pageMargin
	drawHeight := pageHeight - drawAreaTop - pageMargin - legendHeight

	scale := math.Min(drawWidth/binW, drawHeight/binD)
	canvasW := binW * scale
	canvasH := binD * scale
	offsetX := pageMargin + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Cargo floor background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Item footprints in insertion order; a later footprint covers any
	// earlier one it overlaps
	for i, it := range bin.Items {
		col := itemColors[i%len(itemColors)]
		px := offsetX + it.Position().X.InexactFloat64()*scale
		py := offsetY + it.Position().Z.InexactFloat64()*scale
		pw := it.Width().InexactFloat64() * scale
		ph := it.Depth().InexactFloat64() * scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", 6)
			pdf.SetTextColor(0, 0, 0)
			label := it.Name
			labelW := pdf.GetStringWidth(label)
			if labelW < pw-2 {
				pdf.SetXY(px+(pw-labelW)/2, py+ph/2-2)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}

	drawCoGMarkers(pdf, bin, scale, offsetX, offsetY)
	drawLegend(pdf, bin, offsetY+canvasH+5)
}

// drawCoGMarkers draws the actual center of gravity as a crosshair and the
// target point (width/2, depth*0.4) as a hollow circle.
func drawCoGMarkers(pdf *fpdf.Fpdf, bin *model.Bin, scale, offsetX, offsetY float64) {
	binW := bin.Width().InexactFloat64()
	binD := bin.Depth().InexactFloat64()

	targetX := offsetX + binW/2*scale
	targetY := offsetY + binD*0.4*scale
	pdf.SetDrawColor(0, 120, 0)
	pdf.SetLineWidth(0.4)
	pdf.Circle(targetX, targetY, 3, "D")

	cog := bin.CenterOfGravity()
	cx := offsetX + cog.X.InexactFloat64()*scale
	cy := offsetY + cog.Z.InexactFloat64()*scale
	pdf.SetDrawColor(200, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(cx-3, cy, cx+3, cy)
	pdf.Line(cx, cy-3, cx, cy+3)

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(cx+4, cy-2)
	pdf.CellFormat(20, 4, "CoG", "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// drawLegend renders a compact legend of loaded items at the bottom of the
// bin page.
func drawLegend(pdf *fpdf.Fpdf, bin *model.Bin, startY float64) {
	if len(bin.Items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "", 7)
	x := pageMargin
	y := startY
	for i, it := range bin.Items {
		col := itemColors[i%len(itemColors)]
		entry := fmt.Sprintf("%s (%sx%sx%s, %s kg)", it.Name,
			it.Width(), it.Height(), it.Depth(), it.Weight)
		entryW := 3.5 + pdf.GetStringWidth(entry) + 4

		if x+entryW > pageWidth-pageMargin {
			x = pageMargin
			y += 4.5
			if y > pageHeight-pageMargin {
				break
			}
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+3.5, y)
		pdf.CellFormat(entryW-3.5, 4, entry, "", 0, "L", false, 0, "")
		x += entryW
	}
}

// renderSummaryPage draws overall configuration statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, configuration model.Configuration, stats model.Statistics) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(pageMargin, pageMargin)
	pdf.CellFormat(pageWidth-pageMargin-pageMargin, headerHeight, "Load Summary", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	y := pageMargin + headerHeight + 5

	lines := []string{
		fmt.Sprintf("Bins used: %d", len(configuration)),
		fmt.Sprintf("Items loaded: %d", configuration.ItemCount()),
		fmt.Sprintf("Loaded volume: %s m3", stats.LoadedVolume),
		fmt.Sprintf("Loaded weight: %s kg", stats.LoadedWeight),
		fmt.Sprintf("Average fill ratio: %s", stats.AverageVolume),
	}
	for _, bin := range configuration {
		cog := bin.CenterOfGravity()
		lines = append(lines, fmt.Sprintf("Bin %d (%s): %d items, %s kg, CoG (%s, %s, %s)",
			bin.ID+1, bin.Model.Name, len(bin.Items), bin.Weight, cog.X, cog.Y, cog.Z))
	}

	for _, line := range lines {
		pdf.SetXY(pageMargin, y)
		pdf.CellFormat(pageWidth-pageMargin-pageMargin, 5, line, "", 0, "L", false, 0, "")
		y += 6
	}
}

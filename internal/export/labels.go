package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/loadwise/vanpack/internal/model"
)

// LabelInfo holds the data encoded into each parcel label's QR code.
type LabelInfo struct {
	ItemID   string `json:"id"`
	Name     string `json:"name"`
	Width    string `json:"width_m"`
	Height   string `json:"height_m"`
	Depth    string `json:"depth_m"`
	Weight   string `json:"weight_kg"`
	BinIndex int    `json:"bin"`
	BinName  string `json:"bin_name"`
	X        string `json:"x_m"`
	Y        string `json:"y_m"`
	Z        string `json:"z_m"`
	Rotation int    `json:"rotation"`
}

// Cell geometry of Avery 5160 label stock: 3 columns x 10 rows of
// 66.7mm x 25.4mm cells on US Letter, 12.7mm top and 4.8mm side margins.
// These values are dictated by the stock itself.
const (
	labelMarginTop  = 12.7
	labelMarginLeft = 4.8
	labelWidth      = 66.7
	labelHeight     = 25.4
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
)

// Composition inside a cell: QR block on the left, text to its right.
const (
	qrSize       = 18.0 // mm
	labelPadding = 2.5  // mm
)

// CollectLabelInfos extracts label information from a configuration for use
// in testing or alternative export formats.
func CollectLabelInfos(configuration model.Configuration) []LabelInfo {
	var labels []LabelInfo
	for binIdx, bin := range configuration {
		for _, it := range bin.Items {
			labels = append(labels, LabelInfo{
				ItemID:   it.ID,
				Name:     it.Name,
				Width:    it.Width().String(),
				Height:   it.Height().String(),
				Depth:    it.Depth().String(),
				Weight:   it.Weight.String(),
				BinIndex: binIdx + 1,
				BinName:  bin.Model.Name,
				X:        it.Position().X.String(),
				Y:        it.Position().Y.String(),
				Z:        it.Position().Z.String(),
				Rotation: it.Rotation(),
			})
		}
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels for all loaded parcels.
// Each label carries the parcel name, dimensions, target bin, and a QR code
// encoding the placement as JSON. Labels are laid out on a standard label
// sheet format (Avery 5160 / 3 columns x 10 rows on US Letter).
func ExportLabels(path string, configuration model.Configuration) error {
	labels := CollectLabelInfos(configuration)
	if len(labels) == 0 {
		return fmt.Errorf("no loaded parcels to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label cell: the QR block on the left, the
// parcel name and placement text flowing down the right.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(190, 190, 190)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.ItemID, info.BinIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize,
		false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + qrSize + 2*labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Text lines flow downward from the top padding; CellFormat with
	// ln=2 keeps the cursor in the text column.
	pdf.SetXY(textX, y+labelPadding)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(textW, 4, fitText(pdf, info.Name, textW), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	dims := fmt.Sprintf("%s x %s x %s m, %s kg", info.Width, info.Height, info.Depth, info.Weight)
	pdf.CellFormat(textW, 3.5, fitText(pdf, dims, textW), "", 2, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(110, 110, 110)
	target := fmt.Sprintf("Bin %d (%s)", info.BinIndex, info.BinName)
	pdf.CellFormat(textW, 3, fitText(pdf, target, textW), "", 2, "L", false, 0, "")
	place := fmt.Sprintf("at (%s, %s, %s)", info.X, info.Y, info.Z)
	if info.Rotation != 0 {
		place += fmt.Sprintf(", orientation %d", info.Rotation)
	}
	pdf.CellFormat(textW, 3, fitText(pdf, place, textW), "", 2, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)

	return nil
}

// fitText shortens s until it fits within width w, marking truncation with
// an ellipsis.
func fitText(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	r := []rune(s)
	for len(r) > 1 && pdf.GetStringWidth(string(r)+"...") > w {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

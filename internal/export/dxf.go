package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/loadwise/vanpack/internal/model"
)

// binSpacing is the gap between bin floor plans in the drawing, in the same
// unit as the bin dimensions.
const binSpacing = 1.0

// ExportDXF writes the configuration's floor plans (X-Z bird's eye view) as
// a DXF drawing. Each bin gets its own layer with the bin outline and every
// item footprint; bins are laid out side by side along the X axis. The
// center of gravity of each bin is marked with a cross on a shared marker
// layer.
func ExportDXF(path string, configuration model.Configuration) error {
	if len(configuration) == 0 {
		return fmt.Errorf("no bins to export")
	}

	d := dxf.NewDrawing()

	offset := 0.0
	for binIdx, bin := range configuration {
		layer := fmt.Sprintf("BIN_%d", binIdx+1)
		if _, err := d.AddLayer(layer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer %q: %w", layer, err)
		}

		binW := bin.Width().InexactFloat64()
		binD := bin.Depth().InexactFloat64()
		if err := drawRect(d, offset, 0, binW, binD); err != nil {
			return fmt.Errorf("failed to draw bin %d outline: %w", binIdx+1, err)
		}

		for _, it := range bin.Items {
			x := offset + it.Position().X.InexactFloat64()
			z := it.Position().Z.InexactFloat64()
			w := it.Width().InexactFloat64()
			dep := it.Depth().InexactFloat64()
			if err := drawRect(d, x, z, w, dep); err != nil {
				return fmt.Errorf("failed to draw item %q: %w", it.Name, err)
			}
		}

		offset += binW + binSpacing
	}

	if _, err := d.AddLayer("COG", color.Red, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add CoG layer: %w", err)
	}
	offset = 0.0
	for _, bin := range configuration {
		binW := bin.Width().InexactFloat64()
		if len(bin.Items) > 0 {
			cog := bin.CenterOfGravity()
			cx := offset + cog.X.InexactFloat64()
			cz := cog.Z.InexactFloat64()
			size := 0.1
			if _, err := d.Line(cx-size, cz, 0, cx+size, cz, 0); err != nil {
				return fmt.Errorf("failed to draw CoG marker: %w", err)
			}
			if _, err := d.Line(cx, cz-size, 0, cx, cz+size, 0); err != nil {
				return fmt.Errorf("failed to draw CoG marker: %w", err)
			}
		}
		offset += binW + binSpacing
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle on the current layer.
func drawRect(d *drawing.Drawing, x, y, w, h float64) error {
	lines := [][4]float64{
		{x, y, x + w, y},
		{x + w, y, x + w, y + h},
		{x + w, y + h, x, y + h},
		{x, y + h, x, y},
	}
	for _, l := range lines {
		if _, err := d.Line(l[0], l[1], 0, l[2], l[3], 0); err != nil {
			return err
		}
	}
	return nil
}

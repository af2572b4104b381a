package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/loadwise/vanpack/internal/engine"
	"github.com/loadwise/vanpack/internal/export"
	"github.com/loadwise/vanpack/internal/importer"
	"github.com/loadwise/vanpack/internal/model"
	"github.com/loadwise/vanpack/internal/project"
)

var packFlags struct {
	itemsFile   string
	projectFile string
	bins        []string
	defaultBin  string
	strategy    string
	constraints []string
	decimals    int32
	biggerFirst bool
	priority    bool
	heightW     float64
	compactW    float64

	pdfOut    string
	xlsxOut   string
	dxfOut    string
	labelsOut string
	saveAs    string
}

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Pack a parcel list into a fleet of bins",
	RunE:  runPack,
}

func init() {
	f := packCmd.Flags()
	f.StringVarP(&packFlags.itemsFile, "items", "i", "", "Parcel list file (.csv or .xlsx)")
	f.StringVarP(&packFlags.projectFile, "project", "p", "", "Project file (.json) to pack")
	f.StringArrayVarP(&packFlags.bins, "bin", "b", nil, "Fleet bin spec WxHxD:maxweight (repeatable)")
	f.StringVar(&packFlags.defaultBin, "default-bin", "", "Default bin spec WxHxD:maxweight")
	f.StringVarP(&packFlags.strategy, "strategy", "s", string(model.StrategyGreedy), "Packing strategy: greedy or multi_anchor")
	f.StringSliceVarP(&packFlags.constraints, "constraints", "c", nil, "Constraint keys to enforce (default: all built-ins)")
	f.Int32Var(&packFlags.decimals, "decimals", 3, "Decimal digits for geometric precision")
	f.BoolVar(&packFlags.biggerFirst, "bigger-first", true, "Sort items by descending volume")
	f.BoolVar(&packFlags.priority, "follow-priority", true, "Sort items by descending priority first")
	f.Float64Var(&packFlags.heightW, "height-weight", 0.3, "Multi-anchor height penalty weight")
	f.Float64Var(&packFlags.compactW, "compact-weight", 0.2, "Multi-anchor compactness penalty weight")
	f.StringVar(&packFlags.pdfOut, "pdf", "", "Write a PDF load plan to this path")
	f.StringVar(&packFlags.xlsxOut, "xlsx", "", "Write an XLSX manifest to this path")
	f.StringVar(&packFlags.dxfOut, "dxf", "", "Write a DXF floor plan to this path")
	f.StringVar(&packFlags.labelsOut, "labels", "", "Write QR parcel labels to this path")
	f.StringVar(&packFlags.saveAs, "save", "", "Save batch, fleet, and settings as a project file")
}

// parseBinSpec parses "WxHxD:maxweight", e.g. "1.87x2.172x4.07:1400".
func parseBinSpec(name, spec string) (model.BinModel, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return model.BinModel{}, fmt.Errorf("invalid bin spec %q (want WxHxD:maxweight)", spec)
	}
	dims := strings.Split(parts[0], "x")
	if len(dims) != 3 {
		return model.BinModel{}, fmt.Errorf("invalid bin dimensions %q (want WxHxD)", parts[0])
	}
	var vals [3]float64
	for i, d := range dims {
		v, err := strconv.ParseFloat(strings.TrimSpace(d), 64)
		if err != nil || v <= 0 {
			return model.BinModel{}, fmt.Errorf("invalid bin dimension %q", d)
		}
		vals[i] = v
	}
	maxWeight, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || maxWeight <= 0 {
		return model.BinModel{}, fmt.Errorf("invalid max weight %q", parts[1])
	}
	return model.NewBinModelDims(name, vals[0], vals[1], vals[2], maxWeight), nil
}

// loadItems reads a parcel list, logging importer warnings.
func loadItems(path string) ([]*model.Item, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		result = importer.ImportCSV(path)
	case ".xlsx":
		result = importer.ImportExcel(path)
	default:
		return nil, fmt.Errorf("unsupported parcel list format %q", filepath.Ext(path))
	}
	for _, w := range result.Warnings {
		slog.Warn("import", "message", w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			slog.Error("import", "message", e)
		}
		return nil, fmt.Errorf("parcel list import failed with %d error(s)", len(result.Errors))
	}
	return result.Items, nil
}

func buildSettings() engine.Settings {
	s := engine.DefaultSettings()
	s.Strategy = model.Strategy(packFlags.strategy)
	if len(packFlags.constraints) > 0 {
		s.Constraints = packFlags.constraints
	}
	s.Decimals = packFlags.decimals
	s.BiggerFirst = packFlags.biggerFirst
	s.FollowPriority = packFlags.priority
	s.HeightWeight = packFlags.heightW
	s.CompactWeight = packFlags.compactW
	return s
}

// buildPacker assembles a packer from the pack flags or a project file.
func buildPacker() (*engine.Packer, engine.Settings, error) {
	if packFlags.projectFile != "" {
		prj, err := project.Load(packFlags.projectFile)
		if err != nil {
			return nil, engine.Settings{}, err
		}
		return prj.Packer(), prj.Settings, nil
	}

	if packFlags.itemsFile == "" {
		return nil, engine.Settings{}, fmt.Errorf("either --items or --project is required")
	}
	items, err := loadItems(packFlags.itemsFile)
	if err != nil {
		return nil, engine.Settings{}, err
	}

	p := engine.NewPacker()
	p.AddBatch(items)
	for i, spec := range packFlags.bins {
		bm, err := parseBinSpec(fmt.Sprintf("Bin model %d", i+1), spec)
		if err != nil {
			return nil, engine.Settings{}, err
		}
		p.AddBin(bm)
	}
	if packFlags.defaultBin != "" {
		bm, err := parseBinSpec("Default bin", packFlags.defaultBin)
		if err != nil {
			return nil, engine.Settings{}, err
		}
		p.SetDefaultBin(bm)
	}
	return p, buildSettings(), nil
}

func runPack(cmd *cobra.Command, args []string) error {
	p, settings, err := buildPacker()
	if err != nil {
		return err
	}

	slog.Info("packing", "items", len(p.Items), "fleet", len(p.Fleet), "strategy", settings.Strategy)
	if err := p.Pack(settings); err != nil {
		return err
	}

	stats := p.CalculateStatistics()
	slog.Info("packed",
		"bins", len(p.CurrentConfiguration),
		"loaded", p.CurrentConfiguration.ItemCount(),
		"unfitted", len(p.UnfittedItems),
		"loaded_weight", stats.LoadedWeight.String(),
		"avg_fill", stats.AverageVolume.String(),
	)
	for _, bin := range p.CurrentConfiguration {
		cog := bin.CenterOfGravity()
		slog.Info("bin", "id", bin.ID, "model", bin.Model.Name,
			"items", len(bin.Items), "weight", bin.Weight.String(),
			"cog_x", cog.X.String(), "cog_y", cog.Y.String(), "cog_z", cog.Z.String())
	}
	for _, it := range p.UnfittedItems {
		slog.Warn("unfitted", "name", it.Name, "weight", it.Weight.String())
	}

	if packFlags.pdfOut != "" {
		if err := export.ExportPDF(packFlags.pdfOut, p.CurrentConfiguration, stats); err != nil {
			return err
		}
		slog.Info("wrote load plan", "path", packFlags.pdfOut)
	}
	if packFlags.xlsxOut != "" {
		if err := export.ExportXLSX(packFlags.xlsxOut, p.CurrentConfiguration, stats); err != nil {
			return err
		}
		slog.Info("wrote manifest", "path", packFlags.xlsxOut)
	}
	if packFlags.dxfOut != "" {
		if err := export.ExportDXF(packFlags.dxfOut, p.CurrentConfiguration); err != nil {
			return err
		}
		slog.Info("wrote floor plan", "path", packFlags.dxfOut)
	}
	if packFlags.labelsOut != "" {
		if err := export.ExportLabels(packFlags.labelsOut, p.CurrentConfiguration); err != nil {
			return err
		}
		slog.Info("wrote labels", "path", packFlags.labelsOut)
	}
	if packFlags.saveAs != "" {
		if err := project.Save(packFlags.saveAs, project.FromPacker("Pack run", p, settings)); err != nil {
			return err
		}
		slog.Info("saved project", "path", packFlags.saveAs)
	}

	return nil
}

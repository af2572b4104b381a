package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/loadwise/vanpack/internal/engine"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare packing strategies with and without CoG balancing",
	Long: `Compare packs the same parcel list under the standard scenario matrix
(greedy and multi-anchor, each with and without the center-of-gravity
constraint) and prints the resulting metrics side by side.`,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVarP(&packFlags.itemsFile, "items", "i", "", "Parcel list file (.csv or .xlsx)")
	f.StringArrayVarP(&packFlags.bins, "bin", "b", nil, "Fleet bin spec WxHxD:maxweight (repeatable)")
	f.StringVar(&packFlags.defaultBin, "default-bin", "", "Default bin spec WxHxD:maxweight")
	f.Int32Var(&packFlags.decimals, "decimals", 3, "Decimal digits for geometric precision")
}

func runCompare(cmd *cobra.Command, args []string) error {
	if packFlags.itemsFile == "" {
		return fmt.Errorf("--items is required")
	}
	items, err := loadItems(packFlags.itemsFile)
	if err != nil {
		return err
	}

	p := engine.NewPacker()
	for i, spec := range packFlags.bins {
		bm, err := parseBinSpec(fmt.Sprintf("Bin model %d", i+1), spec)
		if err != nil {
			return err
		}
		p.AddBin(bm)
	}
	if packFlags.defaultBin != "" {
		bm, err := parseBinSpec("Default bin", packFlags.defaultBin)
		if err != nil {
			return err
		}
		p.SetDefaultBin(bm)
	}
	if len(p.Fleet) == 0 && p.DefaultBin == nil {
		return fmt.Errorf("at least one --bin or --default-bin is required")
	}

	base := engine.DefaultSettings()
	base.Decimals = packFlags.decimals
	scenarios := engine.BuildDefaultScenarios(base)

	results, err := engine.CompareScenarios(scenarios, p.Fleet, p.DefaultBin, items)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Scenario\tLoaded\tBins\tFill %\tCoG dev X %\tCoG dev Z %\tTime")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d/%d\t%d\t%.1f\t%.1f\t%.1f\t%s\n",
			r.Scenario.Name, r.ItemsLoaded, r.ItemsTotal, r.BinsUsed,
			r.VolumeUtilization, r.CoGDeviationX, r.CoGDeviationZ, r.Elapsed.Round(time.Millisecond))
	}
	return w.Flush()
}

// VanPack — 3D van-load planner with center-of-gravity balancing.
//
// Packs rectangular parcels into vehicle cargo areas under geometric,
// weight, support, and balance constraints, and exports load plans.
//
// Build:
//
//	go build -o vanpack ./cmd/vanpack
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vanpack",
	Short: "3D van-load planner with center-of-gravity balancing",
	Long: `VanPack packs rectangular parcels into vehicle cargo areas so that
geometric, weight, support, and balance constraints all hold, and exports
the resulting load plans as PDF, XLSX, DXF, or QR labels.`,
	Run: nil, // forces help output
}

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(generateCmd)
}

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/probe"
)

var probeCmd = &cobra.Command{
	Use:   "probe <file>...",
	Short: "Probe media files and print their technical summary",
	Long: `Probe one or more media files with ffprobe and print the NFO-style
technical summary scenesmith would attach to their release.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runProbeCommand,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbeCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	prober := probe.New(cfg.Media.EnableMediainfoCache)

	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}
		info := prober.Collect(cmd.Context(), path)
		name := filepath.Base(path)
		fmt.Println(headingStyle.Render(name))
		fmt.Print(probe.NFOText(name, info))
	}
	return nil
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/naming"
	"github.com/scenesmith/scenesmith/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate <name>...",
	Short: "Check release names against the dot grammar",
	Long: `Validate one or more release names against the canonical grammar
and report which required elements are missing. The exit status is
non-zero when any name fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	p, err := pipeline.New(cfg, nil)
	if err != nil {
		return err
	}
	vocab := p.Vocabulary()

	rows := make([][]string, 0, len(args))
	failed := 0
	for _, name := range args {
		result := vocab.Validate(name)
		status := successStyle.Render("valid")
		if !result.Valid {
			status = errorStyle.Render(issueList(result.Issues))
			failed++
		}
		rows = append(rows, []string{name, status})
	}
	fmt.Println(renderTable([]string{"Name", "Result"}, rows))

	if failed > 0 {
		return fmt.Errorf("%d of %d names failed validation", failed, len(args))
	}
	return nil
}

func issueList(issues []naming.Issue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, string(issue))
	}
	return strings.Join(parts, ", ")
}

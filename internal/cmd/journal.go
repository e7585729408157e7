package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/journal"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent run sessions",
	Long: `List the recorded sessions of past runs, newest first, with their
export, torrent and upload operation counts.`,
	RunE: runJournalCommand,
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 10, "Maximum number of sessions to list")
	rootCmd.AddCommand(journalCmd)
}

func runJournalCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sessions, err := journal.ReadSessions(cfg.Journal.Dir, journalLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println(mutedStyle.Render("no recorded sessions"))
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.Metadata.StartedAt.Local().Format(time.DateTime),
			s.Metadata.RunID,
			joinNonEmpty(s.Metadata.CommandArgs, " "),
			strconv.Itoa(s.Metadata.TotalOps),
			strconv.Itoa(s.Metadata.FailedOps),
		})
	}
	fmt.Println(renderTable([]string{"Started", "Run", "Command", "Ops", "Failed"}, rows))
	return nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/journal"
	"github.com/scenesmith/scenesmith/internal/log"
	"github.com/scenesmith/scenesmith/internal/pipeline"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process both libraries end to end",
	Long: `Run the full pipeline over the configured Radarr and Sonarr
libraries: decide names, export seed layouts, create torrents and upload
them. Libraries without a configured base URL are skipped.`,
	RunE: runRunCommand,
}

var moviesCmd = &cobra.Command{
	Use:   "movies",
	Short: "Process the movie library only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryCommand(cmd, libraryMovies)
	},
}

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Process the series library only",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLibraryCommand(cmd, librarySeries)
	},
}

type librarySelector int

const (
	libraryMovies librarySelector = iota
	librarySeries
)

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(moviesCmd)
	rootCmd.AddCommand(seriesCmd)
}

func runRunCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec, err := startJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(rec)

	p, err := pipeline.New(cfg, rec)
	if err != nil {
		return err
	}

	movieResults, err := p.RunMovies(cmd.Context())
	if err != nil {
		return err
	}
	printResults("Movies", movieResults)

	seriesResults, err := p.RunSeries(cmd.Context())
	if err != nil {
		return err
	}
	printResults("Series", seriesResults)
	return nil
}

func runLibraryCommand(cmd *cobra.Command, library librarySelector) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rec, err := startJournal(cfg)
	if err != nil {
		return err
	}
	defer closeJournal(rec)

	p, err := pipeline.New(cfg, rec)
	if err != nil {
		return err
	}

	if library == libraryMovies {
		results, err := p.RunMovies(cmd.Context())
		if err != nil {
			return err
		}
		printResults("Movies", results)
		return nil
	}

	results, err := p.RunSeries(cmd.Context())
	if err != nil {
		return err
	}
	printResults("Series", results)
	return nil
}

// startJournal opens a session recorder and prunes expired sessions.
// Returns nil when the journal is disabled, which the recorder tolerates.
func startJournal(cfg *config.Config) (*journal.Recorder, error) {
	if !cfg.Journal.Enabled {
		return nil, nil
	}
	if err := journal.Prune(cfg.Journal.Dir, cfg.Journal.RetentionDays); err != nil {
		logger := log.WithComponent("journal")
		logger.Warn().Err(err).Msg("pruning old sessions failed")
	}
	return journal.Start(cfg.Journal.Dir, os.Args[1:])
}

func closeJournal(rec *journal.Recorder) {
	if rec == nil {
		return
	}
	if err := rec.Close(); err != nil {
		logger := log.WithComponent("journal")
		logger.Warn().Err(err).Msg("writing session record failed")
	}
}

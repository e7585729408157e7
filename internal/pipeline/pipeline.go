// Package pipeline orchestrates a full run: fetch library state, decide
// release names, export seed layouts, create torrents and upload them.
package pipeline

import (
	"fmt"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/export"
	"github.com/scenesmith/scenesmith/internal/journal"
	"github.com/scenesmith/scenesmith/internal/naming"
	"github.com/scenesmith/scenesmith/internal/probe"
	"github.com/scenesmith/scenesmith/internal/torrent"
	"github.com/scenesmith/scenesmith/internal/upload"
)

// Test mode caps, keeping trial runs against large libraries fast.
const (
	testModeMovieLimit  = 50
	testModeSeriesLimit = 10
)

// Result is the naming outcome for one release unit, returned for display.
type Result struct {
	Title     string
	Original  string
	Proposed  string
	Reason    naming.DecisionReason
	Issues    []naming.Issue
	LocalPath string
	Skipped   string // non-empty reason when the unit was not processed
}

// Pipeline wires the run-wide services together.
type Pipeline struct {
	cfg      *config.Config
	vocab    *naming.Vocabulary
	builder  *naming.Builder
	prober   *probe.Service
	exporter *export.Exporter // nil when no seed path is configured
	torrents *torrent.Creator
	uploads  *upload.Service
	journal  *journal.Recorder
}

// New builds a pipeline from configuration. The recorder may be nil.
func New(cfg *config.Config, rec *journal.Recorder) (*Pipeline, error) {
	p := &Pipeline{
		cfg:      cfg,
		vocab:    vocabularyFor(cfg),
		prober:   probe.New(cfg.Media.EnableMediainfoCache),
		torrents: torrent.New(cfg.Torrent),
		uploads:  upload.FromConfig(cfg.Upload),
		journal:  rec,
	}
	p.builder = naming.NewBuilder(p.vocab)

	if cfg.Media.SeedPath != "" {
		exporter, err := export.New(cfg.Media.SeedPath)
		if err != nil {
			return nil, fmt.Errorf("prepare seed path: %w", err)
		}
		p.exporter = exporter
	}
	return p, nil
}

// Vocabulary exposes the run's naming vocabulary, for validate commands.
func (p *Pipeline) Vocabulary() *naming.Vocabulary {
	return p.vocab
}

func vocabularyFor(cfg *config.Config) *naming.Vocabulary {
	vocab := naming.DefaultVocabulary()
	if cfg.Naming.MultiTag != "" {
		vocab.LanguageTags.Multi = cfg.Naming.MultiTag
	}
	if cfg.Naming.FrenchTag != "" {
		vocab.LanguageTags.Single["fr"] = cfg.Naming.FrenchTag
	}
	if cfg.Naming.EnglishTag != "" {
		vocab.LanguageTags.Single["en"] = cfg.Naming.EnglishTag
	}
	return vocab
}

// finalName applies the missing-group suffix policy to a decision.
func (p *Pipeline) finalName(name, releaseGroup string) string {
	if p.cfg.Media.AppendNoTagOnMissingGroup && releaseGroup == "" {
		return name + "-NoTag"
	}
	return name
}

// applyResolutionFallback fills the probe resolution from the quality
// string when the probe came back empty.
func (p *Pipeline) applyResolutionFallback(tech *naming.TechnicalInfo, quality string) {
	if tech.Resolution != "" || quality == "" {
		return
	}
	tech.Resolution = p.vocab.InferResolution(quality)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/report-engine/internal/extract"
	"github.com/pdiddy/report-engine/internal/ingest"
	"github.com/pdiddy/report-engine/internal/llm"
	"github.com/pdiddy/report-engine/pkg/types"
)

const summaryMaxTokens = 400

// SourceSelector picks the documents feeding a report request.
type SourceSelector interface {
	Select(ctx context.Context, topic string, maxSources, windowDays int) ([]types.Document, error)
}

// Store is the persistence surface the synthesizer writes through.
type Store interface {
	CreateReport(ctx context.Context, r types.Report) error
	GetReport(ctx context.Context, id string) (types.Report, error)
	FindReportByTopicHash(ctx context.Context, topicHash string) (types.Report, error)
	AttachRenderPath(ctx context.Context, reportID, path string) error
	CreateCitations(ctx context.Context, citations []types.Citation) error
}

// Renderer produces the HTML page and the on-disk artifact for a report.
type Renderer interface {
	HTML(r types.Report, sources []types.Document, sections []types.Section) (string, error)
	WriteArtifact(r types.Report) (string, error)
}

// Synthesizer assembles reports end to end. External calls run sequentially:
// source selection, one generation call for the body, one for the summary,
// then persistence. Only artifact rendering happens off the request path.
type Synthesizer struct {
	selector SourceSelector
	backend  llm.Backend
	store    Store
	renderer Renderer
	parser   extract.MarkerParser
	cfg      types.GenerationConfig
	logger   *log.Logger
	reuse    *gocache.Cache

	// now is overridable in tests.
	now func() time.Time

	renderWG sync.WaitGroup
}

// NewSynthesizer wires a synthesizer. renderer may be nil to disable HTML
// output entirely.
func NewSynthesizer(sel SourceSelector, backend llm.Backend, store Store, renderer Renderer, cfg types.GenerationConfig, logger *log.Logger) *Synthesizer {
	if logger == nil {
		logger = log.New(os.Stderr)
	}

	var reuse *gocache.Cache
	if cfg.ReuseWindow > 0 {
		reuse = gocache.New(cfg.ReuseWindow, cfg.ReuseWindow)
	}

	return &Synthesizer{
		selector: sel,
		backend:  backend,
		store:    store,
		renderer: renderer,
		parser:   extract.BracketParser{},
		cfg:      cfg,
		logger:   logger.WithPrefix("synth"),
		reuse:    reuse,
		now:      time.Now,
	}
}

// GenerateReport runs the full pipeline for a topic and returns the persisted
// report. Source selection and body generation failures are terminal; a
// failed summary degrades to a templated fallback, and failures after the
// report record is persisted (citations, render artifact) are logged without
// changing the outcome.
func (s *Synthesizer) GenerateReport(ctx context.Context, topic string, maxSources, windowDays int) (types.Report, error) {
	topicHash := ingest.TopicHash(topic)

	if cached, ok := s.cachedReport(ctx, topicHash); ok {
		s.logger.Info("reusing recent report", "topic", topic, "report", cached.ID)
		return cached, nil
	}

	start := s.now()

	sources, err := s.selector.Select(ctx, topic, maxSources, windowDays)
	if err != nil {
		return types.Report{}, fmt.Errorf("selecting sources for %q: %w", topic, err)
	}
	if len(sources) == 0 {
		return types.Report{}, fmt.Errorf("%w for topic %q within %d days", ErrNoSources, topic, windowDays)
	}

	s.logger.Info("sources selected", "topic", topic, "count", len(sources))

	body, err := s.backend.Generate(ctx,
		buildReportPrompt(topic, sources, s.cfg.ExcerptChars),
		s.cfg.MaxTokens, s.cfg.Temperature)
	if err != nil {
		return types.Report{}, &BackendError{Op: "report", Err: err}
	}

	summary, err := s.backend.Generate(ctx,
		buildSummaryPrompt(body, len(sources)),
		summaryMaxTokens, s.cfg.Temperature)
	if err != nil {
		s.logger.Warn("summary generation failed, using fallback", "err", err)
		summary = fallbackSummary(topic, len(sources))
	}

	reportID := uuid.NewString()
	citations := extract.Citations(body, reportID, sources, s.parser)
	sections := extract.Sections(body)

	now := s.now()
	hashes := make([]string, len(sources))
	for i, src := range sources {
		hashes[i] = src.Hash
	}

	r := types.Report{
		ID:            reportID,
		Topic:         topic,
		TopicHash:     topicHash,
		WindowDays:    windowDays,
		MaxSources:    maxSources,
		Title:         reportTitle(topic, now),
		Body:          body,
		Summary:       summary,
		Methodology:   methodology(len(sources), windowDays, now),
		Confidence:    Confidence(sources, body, len(citations)),
		SourceCount:   len(sources),
		CitationCount: len(citations),
		WordCount:     len(strings.Fields(body)),
		Duration:      now.Sub(start),
		SourceHashes:  hashes,
		CreatedAt:     now,
	}

	if s.renderer != nil {
		html, err := s.renderer.HTML(r, sources, sections)
		if err != nil {
			s.logger.Warn("html rendering failed", "report", reportID, "err", err)
		} else {
			r.HTML = html
		}
	}

	if err := s.store.CreateReport(ctx, r); err != nil {
		return types.Report{}, fmt.Errorf("persisting report: %w", err)
	}

	if err := s.store.CreateCitations(ctx, citations); err != nil {
		s.logger.Error("citation write failed, report stands", "report", reportID, "err", err)
	}

	if s.renderer != nil && r.HTML != "" {
		s.renderArtifact(r)
	}

	if s.reuse != nil {
		s.reuse.Set(topicHash, reportID, gocache.DefaultExpiration)
	}

	s.logger.Info("report generated",
		"report", reportID, "sources", r.SourceCount,
		"citations", r.CitationCount, "confidence", fmt.Sprintf("%.2f", r.Confidence),
		"duration", r.Duration)

	return r, nil
}

// cachedReport resolves a topic hash through the reuse cache, falling back
// to the store so a recent report survives process restarts.
func (s *Synthesizer) cachedReport(ctx context.Context, topicHash string) (types.Report, bool) {
	if s.reuse == nil {
		return types.Report{}, false
	}

	if v, ok := s.reuse.Get(topicHash); ok {
		id, _ := v.(string)
		r, err := s.store.GetReport(ctx, id)
		if err == nil {
			return r, true
		}
		s.reuse.Delete(topicHash)
	}

	r, err := s.store.FindReportByTopicHash(ctx, topicHash)
	if err != nil {
		return types.Report{}, false
	}
	if s.now().Sub(r.CreatedAt) > s.cfg.ReuseWindow {
		return types.Report{}, false
	}
	s.reuse.Set(topicHash, r.ID, gocache.DefaultExpiration)
	return r, true
}

// renderArtifact writes the HTML artifact off the request path and attaches
// its path to the report. Failures are logged; the report stays valid.
func (s *Synthesizer) renderArtifact(r types.Report) {
	s.renderWG.Add(1)
	go func() {
		defer s.renderWG.Done()

		path, err := s.renderer.WriteArtifact(r)
		if err != nil {
			s.logger.Error("artifact render failed", "report", r.ID, "err", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.store.AttachRenderPath(ctx, r.ID, path); err != nil {
			s.logger.Error("attaching render path failed", "report", r.ID, "err", err)
		}
	}()
}

// WaitRender blocks until outstanding artifact renders finish. The CLI calls
// this before exiting.
func (s *Synthesizer) WaitRender() {
	s.renderWG.Wait()
}

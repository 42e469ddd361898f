package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwatkins/story-index/internal/authors"
	"github.com/bwatkins/story-index/internal/htmlx"
	"github.com/bwatkins/story-index/internal/httpx"
	"github.com/bwatkins/story-index/internal/listing"
	"github.com/bwatkins/story-index/internal/observability"
	"github.com/bwatkins/story-index/internal/store"
	"github.com/bwatkins/story-index/internal/tables"
)

// Sources names the external inputs of one extraction run: the listing page
// and the two alias sheets.
type Sources struct {
	ListingURL   string
	SpellingsURL string
	PenNamesURL  string
}

// Pipeline runs one full extraction: fetch the listing page, reduce it to
// lines, scan out the raw stories, and normalize the author columns. It has
// no storage dependency so the export tool can run it in-process.
type Pipeline struct {
	fetcher *httpx.Fetcher
	client  *httpx.PoliteClient
	logger  *slog.Logger
	sources Sources
}

func NewPipeline(sources Sources, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		fetcher: httpx.NewFetcher(""),
		client:  httpx.NewPoliteClient(""),
		logger:  logger,
		sources: sources,
	}
}

// LoadTables fetches and materializes both alias tables.
func (p *Pipeline) LoadTables(ctx context.Context) (*authors.Normalizer, error) {
	spellings, err := tables.Load(ctx, p.client, p.sources.SpellingsURL, p.logger)
	if err != nil {
		return nil, fmt.Errorf("load spellings table failed: %w", err)
	}
	observability.IncTablesLoaded()

	penNames, err := tables.Load(ctx, p.client, p.sources.PenNamesURL, p.logger)
	if err != nil {
		return nil, fmt.Errorf("load pen names table failed: %w", err)
	}
	observability.IncTablesLoaded()

	p.logger.Info("alias tables loaded",
		"spellings", len(spellings), "pen_names", len(penNames))
	return authors.NewNormalizer(spellings, penNames), nil
}

// Run produces the final record set in listing order.
func (p *Pipeline) Run(ctx context.Context) ([]store.Story, error) {
	norm, err := p.LoadTables(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, _, err := p.fetcher.FetchBytes(ctx, p.sources.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("fetch listing failed: %w", err)
	}
	observability.IncPagesFetched()
	observability.ObserveFetchDuration(time.Since(start).Seconds())

	page := string(body)
	if title := htmlx.PageTitle(page); title != "" {
		p.logger.Info("fetched listing page", "title", title, "bytes", len(body))
	}

	lines, err := htmlx.Lines(page)
	if err != nil {
		return nil, fmt.Errorf("reduce listing failed: %w", err)
	}
	observability.AddLinesScanned(len(lines))

	scanner := listing.NewScanner(p.logger)
	raw := scanner.Scan(lines)
	observability.AddStoriesExtracted(len(raw))
	observability.AddLinesSkipped(scanner.Skipped)

	stories := assembleStories(raw, norm)

	p.logger.Info("extraction complete",
		"stories", len(stories), "skipped_lines", scanner.Skipped)
	return stories, nil
}

// assembleStories applies the author normalization to the scanned records.
// Published_As keeps the printed byline with spelling variants folded;
// Author additionally resolves pen names to the canonical identity.
func assembleStories(raw []listing.RawStory, norm *authors.Normalizer) []store.Story {
	stories := make([]store.Story, 0, len(raw))
	for i, r := range raw {
		stories = append(stories, store.Story{
			Position:    i,
			Year:        r.Year,
			Month:       r.Month,
			Title:       r.Title,
			PublishedAs: norm.SpellOnly(r.PublishedAs),
			Author:      norm.Normalize(r.PublishedAs),
		})
	}
	return stories
}

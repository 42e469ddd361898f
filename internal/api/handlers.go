package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/bwatkins/story-index/internal/observability"
	"github.com/bwatkins/story-index/internal/store"
)

func (s *Server) handleListStories(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r, 50)

	stories, total, err := s.store.ListStories(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch stories: "+err.Error())
		return
	}
	// Return empty list if nil to be JSON friendly
	if stories == nil {
		stories = []store.Story{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items":  stories,
		"limit":  limit,
		"offset": offset,
		"total":  total,
	})
}

func (s *Server) handleAuthorCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.AuthorCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to aggregate authors: "+err.Error())
		return
	}
	if counts == nil {
		counts = []store.AuthorYearCount{}
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"items": counts,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snapshot := observability.Snapshot()

	lastScraped, err := s.store.LastScrapedAt(r.Context())
	payload := map[string]interface{}{
		"pipeline": snapshot,
	}
	if err == nil && !lastScraped.IsZero() {
		payload["last_scraped_at"] = lastScraped.Format(time.RFC3339)
	}
	respondJSON(w, http.StatusOK, payload)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	// Detached from the request context so a dropped connection does not
	// abort the store replacement mid-transaction.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.ingestion.RefreshOnce(ctx); err != nil {
		respondError(w, http.StatusBadGateway, "Refresh failed: "+err.Error())
		return
	}

	total, err := s.store.CountStories(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Refresh succeeded but count failed: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"refreshed": true,
		"stories":   total,
	})
}

func parsePagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit := defaultLimit
	offset := 0

	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}

	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

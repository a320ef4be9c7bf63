package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Clark-Hu/movielens-reports/internal/report"
)

type errorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type entryResponse struct {
	Rank          int     `json:"rank"`
	Movie         string  `json:"movie"`
	AverageRating float64 `json:"averageRating"`
}

type reportResponse struct {
	RunID     string                     `json:"runId"`
	Strategy  string                     `json:"strategy"`
	ChunkSize int                        `json:"chunkSize,omitempty"`
	ElapsedMs float64                    `json:"elapsedMs"`
	Segments  map[string][]entryResponse `json:"segments"`
}

type segmentResponse struct {
	RunID     string          `json:"runId"`
	Strategy  string          `json:"strategy"`
	ChunkSize int             `json:"chunkSize,omitempty"`
	ElapsedMs float64         `json:"elapsedMs"`
	Segment   string          `json:"segment"`
	Entries   []entryResponse `json:"entries"`
}

// reportQuery holds the optional query parameters shared by the report endpoints.
type reportQuery struct {
	Strategy  report.Strategy
	ChunkSize int
}

func parseReportQuery(query url.Values, defaultChunkSize int) (reportQuery, error) {
	q := reportQuery{ChunkSize: defaultChunkSize}

	strategy, err := report.ParseStrategy(strings.TrimSpace(query.Get("strategy")))
	if err != nil {
		return q, fmt.Errorf("strategy must be sequential or parallel")
	}
	q.Strategy = strategy

	if val := strings.TrimSpace(query.Get("chunkSize")); val != "" {
		size, err := strconv.Atoi(val)
		if err != nil || size <= 0 {
			return q, fmt.Errorf("invalid chunkSize value")
		}
		q.ChunkSize = size
	}
	return q, nil
}

func (s *Server) runReport(w http.ResponseWriter, r *http.Request) (report.Result, bool) {
	q, err := parseReportQuery(r.URL.Query(), s.runner.ChunkSize())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return report.Result{}, false
	}

	res, err := s.runner.RunWithChunkSize(r.Context(), s.dataset, q.Strategy, q.ChunkSize)
	if err != nil {
		if errors.Is(err, report.ErrInvalidChunkSize) || errors.Is(err, report.ErrUnknownStrategy) {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
			return report.Result{}, false
		}
		s.logger.WithError(err).Error("generate report failed")
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate report")
		return report.Result{}, false
	}
	return res, true
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	res, ok := s.runReport(w, r)
	if !ok {
		return
	}

	segments := make(map[string][]entryResponse, len(res.Report))
	for _, seg := range report.Segments() {
		segments[seg.String()] = toEntryResponses(res.Report[seg])
	}
	s.respondJSON(w, http.StatusOK, reportResponse{
		RunID:     res.ID.String(),
		Strategy:  string(res.Strategy),
		ChunkSize: res.ChunkSize,
		ElapsedMs: elapsedMs(res),
		Segments:  segments,
	})
}

func (s *Server) handleGetSegment(w http.ResponseWriter, r *http.Request) {
	seg, err := report.ParseSegment(chi.URLParam(r, "segment"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Unknown segment")
		return
	}

	res, ok := s.runReport(w, r)
	if !ok {
		return
	}
	s.respondJSON(w, http.StatusOK, segmentResponse{
		RunID:     res.ID.String(),
		Strategy:  string(res.Strategy),
		ChunkSize: res.ChunkSize,
		ElapsedMs: elapsedMs(res),
		Segment:   seg.String(),
		Entries:   toEntryResponses(res.Report[seg]),
	})
}

func toEntryResponses(entries []report.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for i, e := range entries {
		out = append(out, entryResponse{
			Rank:          i + 1,
			Movie:         e.Title,
			AverageRating: roundToTwoDecimals(e.Average),
		})
	}
	return out
}

func elapsedMs(res report.Result) float64 {
	return float64(res.Elapsed.Microseconds()) / 1000.0
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.WithError(err).Error("failed to encode response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100.0
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"txtracker/internal/chart"
	"txtracker/internal/core"
	"txtracker/internal/export"
	"txtracker/internal/ledger"
	"txtracker/internal/reports"
	"txtracker/internal/timeline"
)

type createRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Note   string `json:"note"`
}

type transactionJSON struct {
	ID     int64  `json:"id"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Item   string `json:"item"`
	Amount string `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type historyEntryJSON struct {
	Kind        string           `json:"kind"`
	Label       string           `json:"label,omitempty"`
	Transaction *transactionJSON `json:"transaction,omitempty"`
}

type gridlineJSON struct {
	Value float64 `json:"value"`
	Label string  `json:"label"`
}

type axisJSON struct {
	NiceMax   float64        `json:"nice_max"`
	Gridlines []gridlineJSON `json:"gridlines"`
}

type reportResponse struct {
	Title  string    `json:"title"`
	Total  string    `json:"total"`
	Values []float64 `json:"values"`
	Labels []string  `json:"labels"`
	Axis   axisJSON  `json:"axis"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	now := s.now()
	date := core.Date{Time: now}
	if v := strings.TrimSpace(req.Date); v != "" {
		parsed, err := core.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid date, want YYYY-MM-DD")
			return
		}
		date = parsed
	}

	clock := core.ClockTime{Hour: now.Hour(), Minute: now.Minute()}
	if v := strings.TrimSpace(req.Time); v != "" {
		parsed, err := core.ParseClockTime(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid time, want HH:MM")
			return
		}
		clock = parsed
	}

	paise, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}

	tx := core.Transaction{
		Date:   date,
		Time:   clock,
		Item:   sanitizeInput(req.Item),
		Amount: core.Money{Paise: paise},
		Note:   sanitizeInput(req.Note),
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.ledger.Create(r.Context(), tx)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to save transaction",
			"error", err,
			"item", tx.Item,
			"amount_paise", tx.Amount.Paise)
		writeError(w, http.StatusInternalServerError, "error saving transaction")
		return
	}

	s.invalidate()

	slog.InfoContext(r.Context(), "Transaction created",
		"txn_id", id,
		"item", tx.Item,
		"amount_paise", tx.Amount.Paise)

	tx.ID = id
	writeJSON(w, http.StatusCreated, toTransactionJSON(tx))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	today := core.Date{Time: s.now()}
	key := "history:" + today.String()

	entries, ok := s.historyCache.Get(key)
	if !ok {
		txns, err := s.ledger.List(r.Context())
		if err != nil {
			slog.ErrorContext(r.Context(), "Failed to list transactions", "error", err)
			writeError(w, http.StatusInternalServerError, "error loading transactions")
			return
		}
		entries = timeline.BuildHistory(txns, today)
		s.historyCache.Set(key, entries)
	}

	out := make([]historyEntryJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, toHistoryEntryJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	snap, err := s.ledger.Snapshot(r.Context(), now)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "error building export")
		return
	}

	body, err := snap.ToJSON()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error building export")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(now)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) handleSoftDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	if _, err := s.ledger.Get(r.Context(), id); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to load transaction", "error", err, "txn_id", id)
		writeError(w, http.StatusInternalServerError, "error deleting transaction")
		return
	}

	if err := s.ledger.SoftDelete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to soft delete transaction", "error", err, "txn_id", id)
		writeError(w, http.StatusInternalServerError, "error deleting transaction")
		return
	}

	s.mu.Lock()
	s.lastDeletedID = id
	s.mu.Unlock()
	s.invalidate()

	slog.InfoContext(r.Context(), "Transaction soft deleted", "txn_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUndoDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id := s.lastDeletedID
	s.mu.Unlock()

	if id == 0 {
		writeError(w, http.StatusNotFound, "nothing to undo")
		return
	}

	if err := s.ledger.UndoDelete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to undo delete", "error", err, "txn_id", id)
		writeError(w, http.StatusInternalServerError, "error restoring transaction")
		return
	}

	s.mu.Lock()
	s.lastDeletedID = 0
	s.mu.Unlock()
	s.invalidate()

	slog.InfoContext(r.Context(), "Transaction restored", "txn_id", id)

	tx, err := s.ledger.Get(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]int64{"id": id})
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleHardDeleteLast(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	id := s.lastDeletedID
	s.mu.Unlock()

	if id == 0 {
		writeError(w, http.StatusNotFound, "no soft-deleted transaction to discard")
		return
	}

	if err := s.ledger.HardDelete(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Failed to hard delete transaction", "error", err, "txn_id", id)
		writeError(w, http.StatusInternalServerError, "error discarding transaction")
		return
	}

	s.mu.Lock()
	s.lastDeletedID = 0
	s.mu.Unlock()
	s.invalidate()

	slog.InfoContext(r.Context(), "Transaction hard deleted", "txn_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	period := r.PathValue("period")
	today := core.Date{Time: s.now()}
	key := "report:" + period + ":" + today.String()

	if cached, ok := s.reportCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	var (
		rep reports.Report
		err error
	)
	switch period {
	case "week":
		rep, err = s.reports.Week(r.Context(), today)
	case "month":
		rep, err = s.reports.Month(r.Context(), today)
	case "year":
		rep, err = s.reports.Year(r.Context(), today)
	default:
		writeError(w, http.StatusNotFound, "unknown report period")
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to build report", "error", err, "period", period)
		writeError(w, http.StatusInternalServerError, "error building report")
		return
	}

	resp := toReportResponse(rep)
	s.reportCache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	return transactionJSON{
		ID:     tx.ID,
		Date:   tx.Date.String(),
		Time:   tx.Time.String(),
		Item:   tx.Item,
		Amount: core.FormatAmount(tx.Amount.Paise),
		Note:   tx.Note,
	}
}

func toHistoryEntryJSON(e timeline.Entry) historyEntryJSON {
	out := historyEntryJSON{Label: e.Label}
	switch e.Kind {
	case timeline.KindSection:
		out.Kind = "section"
	case timeline.KindGroup:
		out.Kind = "group"
	case timeline.KindRow:
		out.Kind = "row"
		tx := toTransactionJSON(e.Tx)
		out.Transaction = &tx
		out.Label = timeline.RowLabel(e.Tx)
	case timeline.KindEmpty:
		out.Kind = "empty"
	}
	return out
}

func toReportResponse(rep reports.Report) reportResponse {
	axis := chart.BuildAxis(rep.Values, chart.DefaultTicks)
	gridlines := make([]gridlineJSON, 0, len(axis.Gridlines))
	for _, g := range axis.Gridlines {
		gridlines = append(gridlines, gridlineJSON{Value: g.Value, Label: g.Label})
	}
	return reportResponse{
		Title:  rep.Title,
		Total:  core.FormatAmount(rep.TotalPaise),
		Values: rep.Values,
		Labels: rep.Labels,
		Axis:   axisJSON{NiceMax: axis.NiceMax, Gridlines: gridlines},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 {
			return -1
		}
		return r
	}, s)
}

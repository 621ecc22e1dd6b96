package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expensetrack/internal/core"
	"expensetrack/internal/log"
)

type recordJSON struct {
	Date     string      `json:"date"`
	Amount   json.Number `json:"amount"`
	Category string      `json:"category"`
}

type listResponse struct {
	Expenses []recordJSON `json:"expenses"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type parseResponse struct {
	Recognized bool        `json:"recognized"`
	Record     *recordJSON `json:"record,omitempty"`
}

func toRecordJSON(r core.Record) recordJSON {
	date := ""
	if r.Date.Valid() {
		date = r.Date.Format("2006-01-02")
	}
	return recordJSON{
		Date:     date,
		Amount:   json.Number(r.Amount.String()),
		Category: r.Category,
	}
}

// handleListExpenses serves GET /v1/expenses?year=YYYY. The year
// defaults to the current one; results come newest-first and are cached
// per year until a write invalidates them.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	yearStr := strings.TrimSpace(r.URL.Query().Get("year"))
	year := time.Now().UTC().Year()
	if yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil || y < 1900 || y > 9999 {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = y
	}
	cacheKey := strconv.Itoa(year)

	records, hit := s.listCache.Get(cacheKey)
	if !hit {
		var err error
		records, err = s.ledger.List(r.Context(), year)
		if err != nil {
			s.logger.ErrorContext(r.Context(), "list expenses failed",
				log.FieldYear, year, log.FieldError, err)
			writeError(w, http.StatusInternalServerError, "unable to fetch expenses")
			return
		}
		core.SortByDateDesc(records)
		s.listCache.Set(cacheKey, records)
	}

	out := listResponse{Expenses: make([]recordJSON, 0, len(records))}
	for _, rec := range records {
		out.Expenses = append(out.Expenses, toRecordJSON(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleChat serves POST /v1/expense/chat. An empty message is a 400;
// everything else gets a reply, recording an expense when the message
// parses as one.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	result, err := s.chat.Reply(r.Context(), req.Message)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "chat failed", log.FieldError, err)
		writeError(w, http.StatusInternalServerError, "unable to process message")
		return
	}

	// Writes make the cached year lists stale.
	for _, rec := range result.Recorded {
		if rec.Date.Valid() {
			s.listCache.Delete(strconv.Itoa(rec.Date.Year()))
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: result.Reply})
}

// handleParse serves POST /v1/expense/parse: statement extraction
// without recording anything.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	rec, ok := s.chat.Parse(req.Message)
	if !ok {
		writeJSON(w, http.StatusOK, parseResponse{Recognized: false})
		return
	}
	out := toRecordJSON(rec)
	writeJSON(w, http.StatusOK, parseResponse{Recognized: true, Record: &out})
}

package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"BuySignal/internal/calculator"
	"BuySignal/internal/model"
	"BuySignal/internal/recorder"
	"BuySignal/internal/report"
	"BuySignal/internal/sentiment"
)

var templateFuncs = template.FuncMap{
	"selected": func(a, b string) bool { return a == b },
}

type option struct {
	Value string
}

type field struct {
	Key      string
	Name     string
	Selected string
}

type pageData struct {
	Symbol  string
	Fields  []field
	Options []option
	Report  *report.Report
	Error   string
}

func (s *Server) formData(sel model.Selection) pageData {
	data := pageData{Symbol: s.advisor.Symbol()}
	for _, c := range model.Categories() {
		data.Options = append(data.Options, option{Value: c.String()})
	}
	for _, ind := range model.Indicators() {
		data.Fields = append(data.Fields, field{Key: ind.Key(), Name: ind.String(), Selected: sel.Get(ind).String()})
	}
	return data
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sentiment.ErrMissingIndicator),
		errors.Is(err, sentiment.ErrUnknownCategory),
		errors.Is(err, sentiment.ErrUnknownIndicator),
		errors.Is(err, sentiment.ErrDuplicateIndicator):
		return http.StatusBadRequest
	case errors.Is(err, calculator.ErrEmptySeries):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

// userMessage explains pipeline errors on the page.
func userMessage(err error) string {
	switch {
	case errors.Is(err, calculator.ErrEmptySeries):
		return "No price data available. Try again later or check the data source."
	case errors.Is(err, calculator.ErrNonPositiveMinimum):
		return "The price data looks invalid (non-positive low). No signal was computed."
	default:
		return err.Error()
	}
}

// handleIndex shows the form prefilled with the stored selection, or the
// first option everywhere, and evaluates it without recording.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sel, _, ok := s.store.Get()
	if !ok {
		sel = model.UniformSelection(model.ExtremeFear)
	}
	data := s.formData(sel)
	rep, err := s.advisor.Preview(r.Context(), sel)
	s.renderReport(w, data, rep, err)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderPage(w, http.StatusBadRequest, pageData{Error: err.Error()})
		return
	}
	values := make(map[string]string)
	for _, ind := range model.Indicators() {
		values[ind.Key()] = r.PostForm.Get(ind.Key())
	}
	sel, err := sentiment.ParseSelection(values)
	if err != nil {
		data := s.formData(sel)
		data.Error = err.Error()
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}
	if err := s.store.Save(sel); err != nil {
		s.log.Error().Err(err).Msg("save selection")
	}
	s.renderEvaluation(w, r, sel, recorder.TriggerWeb)
}

func (s *Server) renderEvaluation(w http.ResponseWriter, r *http.Request, sel model.Selection, trigger recorder.Trigger) {
	rep, err := s.advisor.Evaluate(r.Context(), sel, trigger)
	s.renderReport(w, s.formData(sel), rep, err)
}

func (s *Server) renderReport(w http.ResponseWriter, data pageData, rep *report.Report, err error) {
	if err != nil {
		data.Error = userMessage(err)
		s.renderPage(w, statusFor(err), data)
		return
	}
	data.Report = rep
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.log.Error().Err(err).Msg("render page")
	}
}

const maxRequestBody = 1 << 20

type evaluateRequest struct {
	Selection map[string]string `json:"selection"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON: " + err.Error()})
		return
	}
	sel, err := sentiment.ParseSelection(req.Selection)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	rep, err := s.advisor.Evaluate(r.Context(), sel, recorder.TriggerAPI)
	if err != nil {
		s.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, rep)
}

// handleChart returns the price chart series, or 204 when the trailing
// average cannot be computed.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	series, err := s.advisor.Collector.Collect(r.Context())
	if err != nil {
		s.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	stats, err := calculator.Analyze(series.Points, s.advisor.Thresholds)
	if err != nil && !calculator.IsWarning(err) {
		s.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
		return
	}
	if !stats.AverageAvailable {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	chart := report.BuildChart(series, stats.AverageWindow, stats.TrailingMinimum)
	if chart == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, chart)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be between 1 and 500"})
			return
		}
		limit = n
	}
	recs, err := s.recorder.Recent(limit)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if recs == nil {
		recs = []recorder.EvaluationRecord{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

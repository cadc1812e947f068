// Package api exposes the logbook over HTTP. It is a thin presentation
// collaborator: every handler reads from or mutates through the
// LogbookService, which stays the single owner of session state.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akorhonen/icefish-log/internal/domain"
	"github.com/akorhonen/icefish-log/internal/export"
	"github.com/akorhonen/icefish-log/internal/service"
)

// Server routes HTTP requests to the logbook service
type Server struct {
	svc      *service.LogbookService
	logger   *zap.Logger
	validate *validator.Validate
	router   chi.Router
}

// ErrorResponse is the JSON error payload
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// NewServer creates the HTTP server around the given service. An empty
// token disables authentication.
func NewServer(svc *service.LogbookService, token string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		svc:      svc,
		logger:   logger,
		validate: validator.New(),
	}

	r := chi.NewRouter()
	r.Use(requestLogger(logger))
	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(bearerAuth(token))

		r.Get("/sessions", s.handleListSessions)
		r.Post("/sessions", s.handleAddSession)
		r.Put("/sessions/{id}", s.handleUpdateSession)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Delete("/sessions", s.handleResetAll)

		r.Get("/stats", s.handleStats)
		r.Get("/stats/fish", s.handleFishFrequency)
		r.Get("/fish/{species}/sessions", s.handleSessionsForFish)
		r.Get("/calendar/{date}", s.handleCalendarDay)

		r.Get("/export.csv", s.handleExportCSV)
		r.Post("/import.csv", s.handleImportCSV)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListSessions translates query parameters into the store's filter
// state and returns the filtered view. Absent parameters clear their
// criterion, so each request fully defines the filter.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var fish *domain.FishSpecies
	if raw := q.Get("fish"); raw != "" {
		sp, ok := domain.ParseFishSpecies(raw)
		if !ok {
			writeJSONError(w, "unknown fish species", http.StatusBadRequest)
			return
		}
		fish = &sp
	}
	s.svc.SetFishFilter(fish)

	var result *domain.SessionResult
	if raw := q.Get("result"); raw != "" {
		res := domain.ParseSessionResult(raw)
		result = &res
	}
	s.svc.SetResultFilter(result)

	var water *domain.WaterType
	if raw := q.Get("water"); raw != "" {
		wt := domain.ParseWaterType(raw)
		water = &wt
	}
	s.svc.SetWaterTypeFilter(water)

	s.svc.SetSearchText(q.Get("q"))

	writeJSON(w, http.StatusOK, s.svc.FilteredSessions())
}

type sessionRequest struct {
	Date          *time.Time `json:"date"`
	Location      string     `json:"location" validate:"required"`
	WaterType     string     `json:"waterType"`
	IceCondition  string     `json:"iceCondition"`
	Weather       []string   `json:"weather"`
	FishCaught    []string   `json:"fishCaught"`
	OverallResult string     `json:"overallResult"`
	Notes         string     `json:"notes"`
}

func (s *Server) decodeSessionRequest(r *http.Request) (*sessionRequest, error) {
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if err := s.validate.Struct(&req); err != nil {
		return nil, errors.New("location is required")
	}
	return &req, nil
}

// applyTo copies the request fields onto a session, decoding enums
// leniently.
func (req *sessionRequest) applyTo(session *domain.Session) {
	if req.Date != nil {
		session.Date = *req.Date
	}
	session.Location = req.Location
	session.WaterType = domain.ParseWaterType(req.WaterType)
	session.IceCondition = domain.ParseIceCondition(req.IceCondition)
	session.Weather = domain.ParseWeatherList(req.Weather)
	session.FishCaught = domain.ParseFishList(req.FishCaught)
	session.OverallResult = domain.ParseSessionResult(req.OverallResult)
	session.Notes = req.Notes
}

func (s *Server) handleAddSession(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeSessionRequest(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := domain.NewSession(req.Location)
	req.applyTo(&session)

	if err := s.svc.Add(r.Context(), session); err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, err := s.svc.Get(id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	req, err := s.decodeSessionRequest(r)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.applyTo(&session)

	if err := s.svc.Update(r.Context(), session); err != nil {
		s.writeServiceError(w, err)
		return
	}

	updated, err := s.svc.Get(id)
	if err != nil {
		// The snapshot feed has not caught up; return what we sent.
		updated = session
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.svc.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetAll(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.ResetAll(r.Context()); err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.Stats())
}

func (s *Server) handleFishFrequency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.svc.FishFrequency())
}

func (s *Server) handleSessionsForFish(w http.ResponseWriter, r *http.Request) {
	sp, ok := domain.ParseFishSpecies(chi.URLParam(r, "species"))
	if !ok {
		writeJSONError(w, "unknown fish species", http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.SessionsForFish(sp))
}

type calendarDayResponse struct {
	Date       string                `json:"date"`
	Sessions   []domain.Session      `json:"sessions"`
	BestResult *domain.SessionResult `json:"bestResult,omitempty"`
}

func (s *Server) handleCalendarDay(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "date")
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		writeJSONError(w, "invalid date, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	resp := calendarDayResponse{
		Date:     raw,
		Sessions: s.svc.SessionsOn(day),
	}
	if best, ok := s.svc.BestResultOn(day); ok {
		resp.BestResult = &best
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="icefish-log.csv"`)
	_, _ = w.Write([]byte(export.ToCSV(s.svc.Sessions())))
}

type importResponse struct {
	Imported int `json:"imported"`
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	sessions, err := export.FromCSV(r.Body)
	if err != nil {
		writeJSONError(w, "failed to read csv body", http.StatusBadRequest)
		return
	}

	imported := 0
	for _, session := range sessions {
		if err := s.svc.Add(r.Context(), session); err != nil {
			s.writeServiceError(w, err)
			return
		}
		imported++
	}

	writeJSON(w, http.StatusOK, importResponse{Imported: imported})
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidSession):
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("storage failure", zap.Error(err))
		writeJSONError(w, "storage failure", http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: message, Code: statusCode})
}

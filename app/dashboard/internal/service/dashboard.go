package service

import (
	"encoding/json"
	"errors"
	nethttp "net/http"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/urbanpulse/heat_radar/app/dashboard/internal/data"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/domain"
	"github.com/urbanpulse/heat_radar/app/dashboard/internal/usecase"
	"github.com/urbanpulse/heat_radar/app/heat_radar/pkg/source"
)

// fetchFailedMessage is the fixed user-facing text for a backend outage.
const fetchFailedMessage = "Failed to fetch analysis data. The satellite backend may still be starting up."

// DashboardService exposes the analytics use cases over plain JSON routes.
type DashboardService struct {
	ucAnalytics *usecase.AnalyticsUseCase
	ucFeedback  *usecase.FeedbackUseCase
	log         *log.Helper
}

func NewDashboardService(ucAnalytics *usecase.AnalyticsUseCase, ucFeedback *usecase.FeedbackUseCase, logger log.Logger) *DashboardService {
	return &DashboardService{
		ucAnalytics: ucAnalytics,
		ucFeedback:  ucFeedback,
		log:         log.NewHelper(logger),
	}
}

// RegisterRoutes mounts the JSON API on the kratos HTTP server.
func (s *DashboardService) RegisterRoutes(srv *http.Server) {
	srv.HandleFunc("/api/dashboard", s.handleDashboard)
	srv.HandleFunc("/api/forecast", s.handleForecast)
	srv.HandleFunc("/api/localities", s.handleLocalities)
	srv.HandleFunc("/api/report.pdf", s.handleReportPDF)
	srv.HandleFunc("/api/refresh", s.handleRefresh)
	srv.HandleFunc("/api/feedback", s.handleFeedback)
	srv.HandleFunc("/api/status", s.handleStatus)
}

func (s *DashboardService) handleDashboard(w nethttp.ResponseWriter, r *nethttp.Request) {
	view, err := s.ucAnalytics.Dashboard(r.Context(), r.URL.Query().Get("locality"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, view)
}

// handleForecast serves the single-locality outlook; without a locality it
// returns the ranked mitigation table instead, narrowed by search/level.
func (s *DashboardService) handleForecast(w nethttp.ResponseWriter, r *nethttp.Request) {
	q := r.URL.Query()
	if locality := q.Get("locality"); locality != "" {
		view, err := s.ucAnalytics.Forecast(r.Context(), locality)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, view)
		return
	}

	rows, err := s.ucAnalytics.MitigationTable(r.Context(), q.Get("search"), q.Get("level"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"rows": rows})
}

func (s *DashboardService) handleLocalities(w nethttp.ResponseWriter, r *nethttp.Request) {
	names, err := s.ucAnalytics.Localities(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"localities": names})
}

func (s *DashboardService) handleReportPDF(w nethttp.ResponseWriter, r *nethttp.Request) {
	pdf, err := s.ucAnalytics.ReportPDF(r.Context(), r.URL.Query().Get("locality"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="heat_risk_report.pdf"`)
	_, _ = w.Write(pdf)
}

func (s *DashboardService) handleRefresh(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		w.WriteHeader(nethttp.StatusMethodNotAllowed)
		return
	}
	a, err := s.ucAnalytics.Refresh(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"city": a.City, "records": len(a.Records)})
}

func (s *DashboardService) handleFeedback(w nethttp.ResponseWriter, r *nethttp.Request) {
	if r.Method != nethttp.MethodPost {
		w.WriteHeader(nethttp.StatusMethodNotAllowed)
		return
	}
	var fb domain.Feedback
	if err := json.NewDecoder(r.Body).Decode(&fb); err != nil {
		s.writeStatus(w, nethttp.StatusBadRequest, "invalid feedback payload")
		return
	}
	id, err := s.ucFeedback.Submit(r.Context(), &fb)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]any{"id": id})
}

func (s *DashboardService) handleStatus(w nethttp.ResponseWriter, r *nethttp.Request) {
	s.writeJSON(w, s.ucAnalytics.Status(r.Context()))
}

func (s *DashboardService) writeJSON(w nethttp.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Errorf("write response failed: %v", err)
	}
}

func (s *DashboardService) writeError(w nethttp.ResponseWriter, err error) {
	var fe *source.FetchError
	switch {
	case errors.As(err, &fe):
		s.log.Errorf("analysis fetch failed: %v", err)
		s.writeStatus(w, nethttp.StatusBadGateway, fetchFailedMessage)
	case errors.Is(err, usecase.ErrLocalityNotFound):
		s.writeStatus(w, nethttp.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrFeedbackLocality), errors.Is(err, usecase.ErrFeedbackIssues):
		s.writeStatus(w, nethttp.StatusBadRequest, err.Error())
	case errors.Is(err, data.ErrStoreDisabled):
		s.writeStatus(w, nethttp.StatusServiceUnavailable, err.Error())
	default:
		s.log.Errorf("request failed: %v", err)
		s.writeStatus(w, nethttp.StatusInternalServerError, "internal error")
	}
}

func (s *DashboardService) writeStatus(w nethttp.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

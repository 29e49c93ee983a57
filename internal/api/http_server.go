// Package api exposes the availability calendar and booking operations
// over HTTP with API-key auth and per-key rate limiting.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"staffcal/internal/availability"
	"staffcal/internal/config"
	"staffcal/internal/database"
	"staffcal/internal/domain"
	"staffcal/internal/metrics"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

type HTTPServer struct {
	cfg          config.APIConfig
	bookings     domain.BookingService
	availability domain.AvailabilityService
	subjects     domain.SubjectService
	exports      domain.ExportWorker
	logger       *zerolog.Logger
	server       *http.Server
	auth         *HTTPAuth
}

func NewHTTPServer(
	cfg config.APIConfig,
	bookings domain.BookingService,
	availabilitySvc domain.AvailabilityService,
	subjects domain.SubjectService,
	exports domain.ExportWorker,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:          cfg,
		bookings:     bookings,
		availability: availabilitySvc,
		subjects:     subjects,
		exports:      exports,
		logger:       logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/availability-calendar", srv.handleAvailabilityCalendar)
	mux.HandleFunc("/api/v1/availability/check", srv.handleAvailabilityCheck)
	mux.HandleFunc("/api/v1/availability/slots", srv.handleAvailabilitySlots)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/bookings/", srv.handleBookingStatus)
	mux.HandleFunc("/api/v1/subjects", srv.handleSubjects)
	mux.HandleFunc("/api/v1/exports/schedule", srv.handleExportSchedule)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler returns the configured HTTP handler for testing.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleAvailabilityCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_calendar")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	subjectID, err := subjectIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bookings, err := s.availability.SubjectBookings(r.Context(), subjectID)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"subject_id": subjectID,
		"bookings":   bookings,
	})
}

func (s *HTTPServer) handleAvailabilityCheck(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_check")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	subjectID, err := subjectIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	q := r.URL.Query()
	date := strings.TrimSpace(q.Get("date"))
	endDate := strings.TrimSpace(q.Get("end_date"))
	slot := strings.TrimSpace(q.Get("slot"))

	var (
		booked bool
		mode   string
	)
	switch {
	case slot != "":
		mode = "slot"
		booked, err = s.availability.CheckSlot(r.Context(), subjectID, date, slot)
	case endDate != "":
		mode = "range"
		booked, err = s.availability.CheckRange(r.Context(), subjectID, date, endDate)
	case date != "":
		mode = "date"
		booked, err = s.availability.CheckDate(r.Context(), subjectID, date)
	default:
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"booked": booked,
		"mode":   mode,
	})
}

func (s *HTTPServer) handleAvailabilitySlots(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability_slots")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	subjectID, err := subjectIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}

	slots, err := s.availability.FreeSlots(r.Context(), subjectID, date)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	if slots == nil {
		slots = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date,
		"free_slots": slots,
	})
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings")
	switch r.Method {
	case http.MethodGet:
		s.listBookings(w, r)
	case http.MethodPost:
		s.createBooking(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date; expected YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("to")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date; expected YYYY-MM-DD")
		return
	}

	bookings, err := s.bookings.GetBookingsByDateRange(r.Context(), from, to)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var booking models.Booking
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&booking); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if booking.SubjectID == 0 {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return
	}
	if booking.StartDate == "" {
		writeError(w, http.StatusBadRequest, "start_date is required")
		return
	}

	if err := s.bookings.CreateBooking(r.Context(), &booking); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

type statusUpdateRequest struct {
	Status  string `json:"status"`
	Version int64  `json:"version"`
}

func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking_status")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	idStr, tail, ok := strings.Cut(rest, "/")
	if !ok || tail != "status" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	bookingID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || bookingID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req statusUpdateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	switch req.Status {
	case models.StatusConfirmed:
		err = s.bookings.ConfirmBooking(r.Context(), bookingID, req.Version)
	case models.StatusCancelled:
		err = s.bookings.CancelBooking(r.Context(), bookingID, req.Version)
	case models.StatusCompleted:
		err = s.bookings.CompleteBooking(r.Context(), bookingID, req.Version)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported status: %s", req.Status))
		return
	}
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *HTTPServer) handleSubjects(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("subjects")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	subjects, err := s.subjects.GetActiveSubjects(r.Context())
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].SortOrder == subjects[j].SortOrder {
			return subjects[i].ID < subjects[j].ID
		}
		return subjects[i].SortOrder < subjects[j].SortOrder
	})

	writeJSON(w, http.StatusOK, map[string]any{"subjects": subjects})
}

type exportScheduleRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (s *HTTPServer) handleExportSchedule(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export_schedule")
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	now := time.Now()
	start := now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0)
	end := now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0)

	if r.Body != nil && r.ContentLength > 0 {
		var req exportScheduleRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if req.StartDate != "" {
			parsed, err := time.Parse("2006-01-02", req.StartDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid start_date; expected YYYY-MM-DD")
				return
			}
			start = parsed
		}
		if req.EndDate != "" {
			parsed, err := time.Parse("2006-01-02", req.EndDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid end_date; expected YYYY-MM-DD")
				return
			}
			end = parsed
		}
	}

	if err := s.exports.EnqueueRefresh(r.Context(), start, end); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

func subjectIDParam(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("subject_id"))
	if raw == "" {
		return 0, fmt.Errorf("subject_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject_id")
	}
	return id, nil
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, database.ErrConflict),
		errors.Is(err, database.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, database.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, database.ErrPastDate),
		errors.Is(err, database.ErrDateTooFar),
		errors.Is(err, availability.ErrInvalidDate),
		errors.Is(err, availability.ErrInvalidClock),
		errors.Is(err, availability.ErrInvalidSlot),
		errors.Is(err, availability.ErrInvertedRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

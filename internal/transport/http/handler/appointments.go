package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medbook-api/internal/application/appointment"
	"github.com/medbook-api/internal/application/doctor"
	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/validate"
	"github.com/medbook-api/internal/transport/http/middleware"
)

// AppointmentHandler handles booking, availability and status endpoints.
type AppointmentHandler struct {
	svc       appointment.Service
	doctorSvc doctor.Service
}

func NewAppointmentHandler(svc appointment.Service, doctorSvc doctor.Service) *AppointmentHandler {
	return &AppointmentHandler{svc: svc, doctorSvc: doctorSvc}
}

func (h *AppointmentHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req domain.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	available, err := h.svc.CheckAvailability(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AvailabilityEnvelope{Available: available})
}

func (h *AppointmentHandler) Book(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.BookAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = claims.UserID
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	a, err := h.svc.Book(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// ListMine returns the calling patient's appointments.
func (h *AppointmentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	appointments, err := h.svc.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// ListForDoctor returns the appointments of the doctor profile linked to the
// calling user.
func (h *AppointmentHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	d, err := h.doctorSvc.GetByUserID(r.Context(), claims.UserID)
	if err != nil {
		httpError(w, err)
		return
	}
	appointments, err := h.svc.ListByDoctor(r.Context(), d.DoctorID)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// ChangeStatus sets an appointment's status to the supplied string
// (doctor/admin only, enforced by route middleware).
func (h *AppointmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.ChangeAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.ChangeStatus(r.Context(), chi.URLParam(r, "id"), req.Status); err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "appointment status updated"})
}

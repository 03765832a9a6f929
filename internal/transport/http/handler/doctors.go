package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medbook-api/internal/application/doctor"
	"github.com/medbook-api/internal/domain"
	"github.com/medbook-api/internal/pkg/validate"
	"github.com/medbook-api/internal/transport/http/middleware"
)

// maxPhotoSize caps doctor profile photo uploads at 5 MiB.
const maxPhotoSize = 5 << 20

// DoctorHandler handles doctor profile endpoints.
type DoctorHandler struct {
	svc doctor.Service
}

func NewDoctorHandler(svc doctor.Service) *DoctorHandler { return &DoctorHandler{svc: svc} }

// Apply submits a doctor-account application for the calling user.
// The profile always starts pending; the status field cannot be set here.
func (h *DoctorHandler) Apply(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.ApplyDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = claims.UserID
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.Apply(r.Context(), req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *DoctorHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DoctorHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.GetByUserID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *DoctorHandler) ListApproved(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.svc.ListApproved(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

func (h *DoctorHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.svc.ListAll(r.Context())
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// Update edits a doctor profile. Only the profile owner or an admin may call it.
func (h *DoctorHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	doctorID := chi.URLParam(r, "id")
	if claims.Role != domain.RoleAdmin {
		d, err := h.svc.Get(r.Context(), doctorID)
		if err != nil {
			httpError(w, err)
			return
		}
		if d.UserID != claims.UserID {
			writeError(w, http.StatusForbidden, "cannot update another doctor's profile")
			return
		}
	}
	var req domain.UpdateDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.svc.UpdateProfile(r.Context(), doctorID, req)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ChangeStatus approves or rejects a pending application (admin only,
// enforced by route middleware).
func (h *DoctorHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
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
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "doctor status updated"})
}

func (h *DoctorHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	doctorID := chi.URLParam(r, "id")
	d, err := h.svc.Get(r.Context(), doctorID)
	if err != nil {
		httpError(w, err)
		return
	}
	if d.UserID != claims.UserID && claims.Role != domain.RoleAdmin {
		writeError(w, http.StatusForbidden, "cannot upload another doctor's photo")
		return
	}
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		writeError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()
	updated, err := h.svc.UploadPhoto(r.Context(), doctorID, header.Filename, file)
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DoctorHandler) PhotoURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.svc.PhotoURL(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

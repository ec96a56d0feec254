package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/schema"
)

const maxBodyBytes = 64 << 10

// GetPage renders the form and the outcome of the current control values.
// Every control change submits the form, so one request is one interaction.
func (h *httpServer) GetPage(w http.ResponseWriter, r *http.Request) {
	vars := r.URL.Query()
	wantExplanation := vars.Get("explain") == "on"

	data := newPageData(vars, wantExplanation)

	rec, err := schema.FromForm(vars)
	if err != nil {
		h.log.Info("form validation failed", zap.Error(err))
		data.InputError = err.Error()
		h.renderPage(w, http.StatusBadRequest, data)
		return
	}

	data.setOutcome(h.cycle.Run(rec, wantExplanation))
	h.renderPage(w, http.StatusOK, data)
}

func (h *httpServer) renderPage(w http.ResponseWriter, status int, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		h.log.Error("render page", zap.Error(err))
	}
}

// PostPredict runs one cycle for a JSON request body
func (h *httpServer) PostPredict(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, dal.ErrorResponse{Code: "BODY_TOO_LARGE", Message: err.Error()})
		return
	}

	if err := schema.ValidateJSON(body); err != nil {
		h.log.Info("request validation failed", zap.Error(err))
		resp := dal.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}
		var vErr *schema.ValidationError
		if errors.As(err, &vErr) {
			resp.Details = vErr.Details
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var req dal.PredictRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, dal.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		return
	}
	if err := schema.Validate(req.CarRecord); err != nil {
		h.log.Info("record validation failed", zap.Error(err))
		writeJSON(w, http.StatusBadRequest, dal.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		return
	}

	out := h.cycle.Run(req.CarRecord, req.Explain)
	writeJSON(w, http.StatusOK, out.DTO())
}

// GetSchema describes the form fields and the request JSON Schema
func (h *httpServer) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"fields":      schema.Fields,
		"json_schema": schema.JSONSchema(),
	})
}

// GetHealth reports that the artifacts are loaded and requests are served
func (h *httpServer) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		w.Write([]byte(err.Error()))
	}
}

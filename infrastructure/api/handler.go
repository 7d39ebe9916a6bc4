package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"village-chat/contract"
	"village-chat/domain"
	"village-chat/errors"
	"village-chat/observability"
)

// Handler serves the read-only accessors and the user commands of one node.
type Handler struct {
	log          *slog.Logger
	orchestrator contract.IOrchestrator
	monitoring   *observability.MonitoringManager
}

func NewHandler(log *slog.Logger, orchestrator contract.IOrchestrator, monitoring *observability.MonitoringManager) *Handler {
	return &Handler{log: log, orchestrator: orchestrator, monitoring: monitoring}
}

type StatusResponse struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Peers  int    `json:"peers"`
}

type MessageRequest struct {
	Text string `json:"text"`
}

type SignalRequest struct {
	Blob string `json:"blob"`
}

type SignalResponse struct {
	Blob string `json:"blob"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response.
func (h *Handler) JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.log.Warn("Failed to encode response", "error", err)
		}
	}
}

// Error writes an error response.
func (h *Handler) Error(w http.ResponseWriter, status int, message string) {
	h.JSON(w, status, ErrorResponse{Error: message})
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	h.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	h.JSON(w, http.StatusOK, StatusResponse{
		Name:   h.orchestrator.LocalName(),
		Status: h.orchestrator.Status(),
		Peers:  len(h.orchestrator.Peers()),
	})
}

func (h *Handler) Transcript(w http.ResponseWriter, _ *http.Request) {
	messages := h.orchestrator.Transcript()
	if messages == nil {
		messages = []domain.Message{}
	}
	h.JSON(w, http.StatusOK, messages)
}

func (h *Handler) Peers(w http.ResponseWriter, _ *http.Request) {
	peers := h.orchestrator.Peers()
	if peers == nil {
		peers = []domain.PeerView{}
	}
	h.JSON(w, http.StatusOK, peers)
}

func (h *Handler) Stats(w http.ResponseWriter, _ *http.Request) {
	h.JSON(w, http.StatusOK, h.monitoring.GetLatest())
}

// PostMessage broadcasts the text. Delivery is fire-and-forget, hence 202.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	err := h.orchestrator.SendText(r.Context(), req.Text)
	switch {
	case err == nil:
		h.JSON(w, http.StatusAccepted, nil)
	case errors.Is(err, errors.ErrBlankMessage):
		h.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, errors.ErrMessageTooLong):
		h.Error(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.log.Error("Send failed", "error", err)
		h.Error(w, http.StatusInternalServerError, "failed to send message")
	}
}

func (h *Handler) Stop(w http.ResponseWriter, _ *http.Request) {
	h.orchestrator.Stop()
	w.WriteHeader(http.StatusNoContent)
}

// Rejoin uses a detached context: advertising must outlive the request.
func (h *Handler) Rejoin(w http.ResponseWriter, r *http.Request) {
	h.orchestrator.Rejoin(contextWithoutCancel(r))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Offer(w http.ResponseWriter, r *http.Request) {
	signaler, ok := h.signaler(w)
	if !ok {
		return
	}
	blob, err := signaler.Offer(contextWithoutCancel(r))
	if err != nil {
		h.signalError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, SignalResponse{Blob: blob})
}

func (h *Handler) Answer(w http.ResponseWriter, r *http.Request) {
	signaler, ok := h.signaler(w)
	if !ok {
		return
	}
	req, ok := h.decodeSignal(w, r)
	if !ok {
		return
	}
	blob, err := signaler.Answer(contextWithoutCancel(r), req.Blob)
	if err != nil {
		h.signalError(w, err)
		return
	}
	h.JSON(w, http.StatusOK, SignalResponse{Blob: blob})
}

func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	signaler, ok := h.signaler(w)
	if !ok {
		return
	}
	req, ok := h.decodeSignal(w, r)
	if !ok {
		return
	}
	if err := signaler.Complete(contextWithoutCancel(r), req.Blob); err != nil {
		h.signalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) signaler(w http.ResponseWriter) (contract.Signaler, bool) {
	signaler, ok := h.orchestrator.Signaler()
	if !ok {
		h.Error(w, http.StatusNotImplemented, errors.ErrSignalingUnsupported.Error())
	}
	return signaler, ok
}

func (h *Handler) decodeSignal(w http.ResponseWriter, r *http.Request) (SignalRequest, bool) {
	var req SignalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Blob == "" {
		h.Error(w, http.StatusBadRequest, "blob is required")
		return req, false
	}
	return req, true
}

func (h *Handler) signalError(w http.ResponseWriter, err error) {
	h.log.Warn("Signaling failed", "error", err)
	switch {
	case errors.Is(err, errors.ErrSignalingUnsupported):
		h.Error(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, errors.ErrDecodeFailed):
		h.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.Error(w, http.StatusBadGateway, err.Error())
	}
}

func contextWithoutCancel(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}

package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	bookingerrors "bandsite/internal/booking/errors"
	"bandsite/internal/booking/service"
	apperrors "bandsite/pkg/errors"
	httputil "bandsite/pkg/http"
	"bandsite/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type CreateBookingResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/booking", h.Create)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	raw, err := decodeObject(r.Body)
	if err != nil {
		h.log.Warn("Rejected booking body", "error", err)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.WriteError(w, apperrors.TooLarge(maxErr.Limit))
			return
		}
		httputil.WriteError(w, apperrors.InvalidInput("Invalid request body: "+err.Error()))
		return
	}

	id, err := h.service.Create(r.Context(), raw)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, CreateBookingResponse{Status: "ok", ID: id})
}

// decodeObject keeps numbers as json.Number so integer fields are not
// rounded through float64.
func decodeObject(body io.Reader) (map[string]any, error) {
	decoder := json.NewDecoder(body)
	decoder.UseNumber()

	var raw map[string]any
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, bookingerrors.ErrEmptyBody
		}
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, bookingerrors.ErrInvalidBody
	}
	if raw == nil {
		return nil, bookingerrors.ErrInvalidBody
	}
	return raw, nil
}

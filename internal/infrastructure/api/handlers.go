package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"painting-demo/internal/application/services"
	"painting-demo/internal/application/usecases"
	"painting-demo/internal/domain/entities"
)

const defaultMaxBodyBytes = 10 * 1024 * 1024 // 10MB

type PaintingHandler struct {
	sessionUseCase   *usecases.SessionUseCase
	paintingUseCase  *usecases.PaintingUseCase
	parameterService *services.ParameterService
	validate         *validator.Validate
	log              zerolog.Logger
	maxBodyBytes     int64
}

func NewPaintingHandler(
	sessionUseCase *usecases.SessionUseCase,
	paintingUseCase *usecases.PaintingUseCase,
	parameterService *services.ParameterService,
	log zerolog.Logger,
	maxBodyBytes int64,
) *PaintingHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	return &PaintingHandler{
		sessionUseCase:   sessionUseCase,
		paintingUseCase:  paintingUseCase,
		parameterService: parameterService,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		log:              log,
		maxBodyBytes:     maxBodyBytes,
	}
}

type LocationRequest struct {
	Address string   `json:"address" validate:"required,max=500"`
	Zoom    *int     `json:"zoom,omitempty" validate:"omitempty,min=1,max=21"`
	Tilt    *float64 `json:"tilt,omitempty" validate:"omitempty,min=0,max=67.5"`
	Heading *float64 `json:"heading,omitempty" validate:"omitempty,min=0,lt=360"`
}

type FrameRequest struct {
	DataURI string `json:"data_uri" validate:"required,startswith=data:"`
}

type ViewResponse struct {
	ID               string    `json:"id"`
	Query            string    `json:"query"`
	FormattedAddress string    `json:"formatted_address"`
	Latitude         float64   `json:"lat"`
	Longitude        float64   `json:"lng"`
	Zoom             int       `json:"zoom"`
	Tilt             float64   `json:"tilt"`
	Heading          float64   `json:"heading"`
	ResolvedAt       time.Time `json:"resolved_at"`
}

type SessionResponse struct {
	ID         string        `json:"id"`
	Phase      string        `json:"phase"`
	View       *ViewResponse `json:"view,omitempty"`
	HasCapture bool          `json:"has_capture"`
	HasResult  bool          `json:"has_result"`
	LastError  string        `json:"last_error,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

type ImageResponse struct {
	Data string `json:"data"`
	Type string `json:"type"`
}

type PaintingResponse struct {
	Success bool            `json:"success"`
	Session SessionResponse `json:"session"`
	Image   ImageResponse   `json:"image"`
	DataURI string          `json:"data_uri"`
}

func (h *PaintingHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *PaintingHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionUseCase.Create(r.Context())
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}
	h.sendJSON(w, http.StatusCreated, toSessionResponse(session))
}

func (h *PaintingHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionUseCase.Get(r.Context(), sessionID(r))
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

// HandleLocation - address/zoom/tilt/heading を JSON またはフォームで受け付ける
func (h *PaintingHandler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	input, ok := h.parseLocation(w, r)
	if !ok {
		return
	}

	session, err := h.sessionUseCase.SubmitAddress(r.Context(), sessionID(r), input)
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *PaintingHandler) parseLocation(w http.ResponseWriter, r *http.Request) (usecases.SubmitAddressInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") || strings.HasPrefix(contentType, "multipart/form-data") {
		address := strings.TrimSpace(r.FormValue("address"))
		if address == "" {
			h.sendError(w, "address is required", http.StatusBadRequest)
			return usecases.SubmitAddressInput{}, false
		}
		return usecases.SubmitAddressInput{
			Address:    address,
			Parameters: h.parameterService.ParseFromRequest(r),
		}, true
	}

	var req LocationRequest
	if !h.decodeJSON(w, r, &req) {
		return usecases.SubmitAddressInput{}, false
	}

	params, err := h.parameterService.Resolve(services.ViewParametersInput{
		Zoom:    req.Zoom,
		Tilt:    req.Tilt,
		Heading: req.Heading,
	})
	if err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return usecases.SubmitAddressInput{}, false
	}

	return usecases.SubmitAddressInput{Address: req.Address, Parameters: params}, true
}

func (h *PaintingHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req FrameRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.sessionUseCase.PutFrame(r.Context(), sessionID(r), req.DataURI); err != nil {
		h.sendDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaintingHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	output, err := h.paintingUseCase.Generate(r.Context(), sessionID(r))
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}

	h.sendJSON(w, http.StatusOK, PaintingResponse{
		Success: true,
		Session: toSessionResponse(output.Session),
		Image: ImageResponse{
			Data: output.Painting.ToBase64(),
			Type: output.Painting.MimeType(),
		},
		DataURI: output.Painting.DataURI(),
	})
}

func (h *PaintingHandler) HandleBack(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionUseCase.Back(r.Context(), sessionID(r))
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}
	h.sendJSON(w, http.StatusOK, toSessionResponse(session))
}

func (h *PaintingHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	output, err := h.sessionUseCase.Download(r.Context(), sessionID(r))
	if err != nil {
		h.sendDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", output.Image.MimeType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, output.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", output.Image.Size()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(output.Image.Data())
}

func (h *PaintingHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.sendError(w, fmt.Sprintf("request body exceeds %d bytes", maxBytesErr.Limit), http.StatusRequestEntityTooLarge)
			return false
		}
		h.sendError(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		h.sendError(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (h *PaintingHandler) sendDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	event := h.log.Warn()
	if status >= http.StatusInternalServerError {
		event = h.log.Error()
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("request failed")

	h.sendError(w, err.Error(), status)
}

func (h *PaintingHandler) sendError(w http.ResponseWriter, message string, statusCode int) {
	h.sendJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

func (h *PaintingHandler) sendJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

func sessionID(r *http.Request) entities.SessionID {
	return entities.SessionID(mux.Vars(r)["id"])
}

func toSessionResponse(session *entities.Session) SessionResponse {
	response := SessionResponse{
		ID:        string(session.ID()),
		Phase:     string(session.Phase()),
		View:      toViewResponse(entities.ViewOf(session.State())),
		CreatedAt: session.CreatedAt(),
		UpdatedAt: session.UpdatedAt(),
	}

	switch s := session.State().(type) {
	case entities.ViewReadyState:
		response.LastError = s.LastError
	case entities.GeneratingState:
		response.HasCapture = s.Capture != nil
	case entities.ResultReadyState:
		response.HasCapture = true
		response.HasResult = true
	}
	return response
}

func toViewResponse(view *entities.View) *ViewResponse {
	if view == nil {
		return nil
	}
	location := view.Location()
	params := view.Parameters()
	return &ViewResponse{
		ID:               string(view.ID()),
		Query:            location.Query(),
		FormattedAddress: location.FormattedAddress(),
		Latitude:         location.Latitude(),
		Longitude:        location.Longitude(),
		Zoom:             params.Zoom(),
		Tilt:             params.Tilt(),
		Heading:          params.Heading(),
		ResolvedAt:       view.ResolvedAt(),
	}
}


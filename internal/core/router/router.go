// Package router holds the HTTP handlers of the camera service.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/region"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/config"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
	"github.com/mohammed-shakir/camera-stop-engine/internal/location"
	mylog "github.com/mohammed-shakir/camera-stop-engine/internal/logger"
	"github.com/mohammed-shakir/camera-stop-engine/internal/service"
)

type CameraService interface {
	ApplyIntent(ctx context.Context, cameraID string, next model.CameraIntent) (service.Result, error)
	SetCamera(ctx context.Context, cameraID string, cfg controller.CameraConfig) (service.Result, error)
	Get(ctx context.Context, cameraID string) (controller.State, bool, error)
	Delete(ctx context.Context, cameraID string) error
	Align(req service.AlignRequest) model.Position
	Region(ctx context.Context, cameraID string, in service.RegionInput) (region.Event, bool, error)
}

type LocationService interface {
	Update(ctx context.Context, deviceID string, loc location.Location) (location.Entry, error)
	LastKnown(ctx context.Context, deviceID string) (location.Entry, bool, error)
}

type Handlers struct {
	log  *slog.Logger
	cfg  config.Config
	cams CameraService
	locs LocationService
}

func New(logger *slog.Logger, cfg config.Config, cams CameraService, locs LocationService) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{log: logger, cfg: cfg, cams: cams, locs: locs}
}

// Mount registers the API routes on r.
func (h *Handlers) Mount(r chi.Router) {
	r.Route("/v1/cameras/{id}", func(r chi.Router) {
		r.Get("/", h.observe("/v1/cameras/{id}", h.getCamera))
		r.Delete("/", h.observe("/v1/cameras/{id}", h.deleteCamera))
		r.Post("/intent", h.observe("/v1/cameras/{id}/intent", h.applyIntent))
		r.Post("/camera", h.observe("/v1/cameras/{id}/camera", h.setCamera))
		r.Post("/region", h.observe("/v1/cameras/{id}/region", h.regionEvent))
	})
	r.Post("/v1/align", h.observe("/v1/align", h.align))
	if h.locs != nil {
		r.Get("/v1/locations/{device}", h.observe("/v1/locations/{device}", h.getLocation))
		r.Post("/v1/locations/{device}", h.observe("/v1/locations/{device}", h.postLocation))
	}
}

func (h *Handlers) applyIntent(w http.ResponseWriter, r *http.Request) {
	ctx, id := cameraCtx(r)
	b, err := readBody(w, r, h.cfg.MaxIntentBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in, err := DecodeIntent(b, h.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.cams.ApplyIntent(ctx, id, in)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	h.log.DebugContext(ctx, "intent applied", "changed", res.Changed, "commands", len(res.Commands))
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) setCamera(w http.ResponseWriter, r *http.Request) {
	ctx, id := cameraCtx(r)
	b, err := readBody(w, r, h.cfg.MaxIntentBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cfg, err := DecodeCameraConfig(b, h.cfg)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res, err := h.cams.SetCamera(ctx, id, cfg)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) getCamera(w http.ResponseWriter, r *http.Request) {
	ctx, id := cameraCtx(r)
	st, ok, err := h.cams.Get(ctx, id)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "camera not found")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *Handlers) deleteCamera(w http.ResponseWriter, r *http.Request) {
	ctx, id := cameraCtx(r)
	if err := h.cams.Delete(ctx, id); err != nil {
		h.fail(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) regionEvent(w http.ResponseWriter, r *http.Request) {
	ctx, id := cameraCtx(r)
	b, err := readBody(w, r, h.cfg.MaxIntentBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in service.RegionInput
	if err := json.Unmarshal(b, &in); err != nil {
		writeError(w, http.StatusBadRequest, "decode region event: "+err.Error())
		return
	}
	ev, ok, err := h.cams.Region(ctx, id, in)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *Handlers) align(w http.ResponseWriter, r *http.Request) {
	b, err := readBody(w, r, h.cfg.MaxIntentBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req service.AlignRequest
	if err := json.Unmarshal(b, &req); err != nil {
		writeError(w, http.StatusBadRequest, "decode align request: "+err.Error())
		return
	}
	if !validPosition(req.Target) {
		writeError(w, http.StatusBadRequest, "target out of range")
		return
	}
	writeJSON(w, http.StatusOK, map[string]model.Position{"centerCoordinate": h.cams.Align(req)})
}

func (h *Handlers) getLocation(w http.ResponseWriter, r *http.Request) {
	dev := chi.URLParam(r, "device")
	ctx := mylog.WithDeviceID(r.Context(), dev)
	e, ok, err := h.locs.LastKnown(ctx, dev)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "no known location")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) postLocation(w http.ResponseWriter, r *http.Request) {
	dev := chi.URLParam(r, "device")
	ctx := mylog.WithDeviceID(r.Context(), dev)
	b, err := readBody(w, r, h.cfg.MaxIntentBodyBytes)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var loc location.Location
	if err := json.Unmarshal(b, &loc); err != nil {
		writeError(w, http.StatusBadRequest, "decode location: "+err.Error())
		return
	}
	e, err := h.locs.Update(ctx, dev, loc)
	if err != nil {
		h.fail(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (h *Handlers) fail(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingCamera),
		errors.Is(err, service.ErrInvalidEvent),
		errors.Is(err, location.ErrNoCoordinates):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStore):
		h.log.ErrorContext(ctx, "session store failure", "err", err)
		writeError(w, http.StatusBadGateway, "session store unavailable")
	default:
		h.log.ErrorContext(ctx, "request failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func cameraCtx(r *http.Request) (context.Context, string) {
	id := chi.URLParam(r, "id")
	return mylog.WithCameraID(r.Context(), id), id
}

func (h *Handlers) observe(route string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		fn(sw, r)
		observability.ObserveHTTP(r.Method, route, sw.code, time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/fleet-gps-core/internal/device"
	"github.com/nerrad567/fleet-gps-core/internal/validation"
)

// handleListDevices returns all devices ordered by id.
//
// Query parameters:
//   - provider: filter by provider (Vista, Entel, Geotab, Copiloto)
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	s.listDevices(w, r, r.URL.Query().Get("provider"))
}

// handleListDevicesByProvider serves /devices/provider/{provider}.
func (s *Server) handleListDevicesByProvider(w http.ResponseWriter, r *http.Request) {
	s.listDevices(w, r, chi.URLParam(r, "provider"))
}

func (s *Server) listDevices(w http.ResponseWriter, r *http.Request, provider string) {
	filter, err := device.ParseFilter(provider)
	if err != nil {
		s.writeServiceError(w, r, err, "list devices")
		return
	}

	devices, err := s.fleet.ListDevices(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err, "list devices")
		return
	}
	if devices == nil {
		devices = []device.Device{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"devices": devices, "count": len(devices)})
}

// handleGetDevice returns a single device by ID.
func (s *Server) handleGetDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "device")
	if !ok {
		return
	}

	dev, err := s.fleet.GetDevice(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "get device")
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleCreateDevice registers a device. Every field is required.
func (s *Server) handleCreateDevice(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeDevice(w, r)
	if !ok {
		return
	}

	dev, err := s.fleet.CreateDevice(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err, "create device")
		return
	}
	writeJSON(w, http.StatusCreated, dev)
}

// handleUpdateDevice partially updates a device. PUT and PATCH behave the
// same: absent fields keep their stored value.
func (s *Server) handleUpdateDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "device")
	if !ok {
		return
	}
	in, ok := s.decodeDevice(w, r)
	if !ok {
		return
	}

	dev, err := s.fleet.UpdateDevice(r.Context(), id, in)
	if err != nil {
		s.writeServiceError(w, r, err, "update device")
		return
	}
	writeJSON(w, http.StatusOK, dev)
}

// handleDeleteDevice removes a device and its position reports.
func (s *Server) handleDeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "device")
	if !ok {
		return
	}

	result, err := s.fleet.DeleteDevice(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, "delete device")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":           fmt.Sprintf("device %d deleted", result.ID),
		"id":                result.ID,
		"positions_removed": result.PositionsRemoved,
	})
}

func (s *Server) decodeDevice(w http.ResponseWriter, r *http.Request) (device.Input, bool) {
	body, ok := readBody(w, r)
	if !ok {
		return device.Input{}, false
	}
	in, err := device.DecodeInput(body)
	if err != nil {
		s.writeServiceError(w, r, err, "decode device")
		return device.Input{}, false
	}
	return in, true
}

// readBody reads the request body, answering 413 when it exceeds the limit.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return nil, false
		}
		writeBadRequest(w, "failed to read request body")
		return nil, false
	}
	return body, true
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, entity string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, Error{
			Status:     http.StatusBadRequest,
			Code:       ErrCodeBadRequest,
			Message:    "invalid " + entity + " id",
			Violations: []validation.Violation{{Field: "id", Message: fmt.Sprintf("must be a positive integer, got %q", raw)}},
		})
		return 0, false
	}
	return id, true
}

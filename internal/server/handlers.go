package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloud-ru/mcp-deposits-go/internal/history"
	"github.com/cloud-ru/mcp-deposits-go/internal/tools"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"version": "1.0.0",
		"service": s.cfg.OTELServiceName,
		"tools":   len(s.registry.Names()),
	})
}

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools": s.registry.Names(),
	})
}

// handleCallTool декодирует параметры из тела и вызывает инструмент.
// Пустое тело равносильно пустому набору параметров.
func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	params := map[string]interface{}{}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "некорректное тело запроса: " + err.Error()})
		return
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	result, err := s.registry.Call(r.Context(), name, params)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			s.log.Error().Err(err).Str("tool", name).Msg("Ошибка инструмента")
		} else {
			s.log.Debug().Err(err).Str("tool", name).Msg("Инструмент отклонил запрос")
		}
		s.writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, tools.ErrUnknownTool), errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, tools.ErrHistory):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Не удалось сериализовать JSON ответ")
	}
}

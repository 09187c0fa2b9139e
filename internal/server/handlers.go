package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/tessro/tuneboard/internal/core"
	tberrors "github.com/tessro/tuneboard/internal/errors"
	"github.com/tessro/tuneboard/internal/history"
	"github.com/tessro/tuneboard/internal/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type recentQuery struct {
	Limit int `validate:"min=1,max=50"`
}

type historyQuery struct {
	Limit int `validate:"min=0,max=10000"`
}

type playerAction struct {
	Action string `validate:"required,oneof=play pause next prev"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

type trackResponse struct {
	Appended bool            `json:"appended"`
	Reason   history.Reason  `json:"reason"`
	Record   *history.Record `json:"record,omitempty"`
	Records  int             `json:"records"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{
		Error:      err.Error(),
		Suggestion: tberrors.GetSuggestion(err),
	})
}

func statusFor(err error) int {
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr), errors.Is(err, strconv.ErrSyntax), errors.Is(err, strconv.ErrRange):
		return http.StatusBadRequest
	case errors.Is(err, tberrors.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, tberrors.ErrPremiumRequired):
		return http.StatusForbidden
	case errors.Is(err, tberrors.ErrNoActiveDevice):
		return http.StatusNotFound
	case errors.Is(err, tberrors.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, tberrors.ErrHistoryStore):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}

// queryInt reads an integer query parameter, returning def when absent.
func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) credential(r *http.Request) (core.Credential, error) {
	if s.deps.Creds == nil {
		return "", tberrors.ErrNotAuthenticated
	}
	return s.deps.Creds.Credential(r.Context())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNowPlaying(w http.ResponseWriter, r *http.Request) {
	state := s.deps.Watcher.Current()
	if state.UpdatedAt.IsZero() {
		var err error
		if state, err = s.deps.Watcher.Refresh(r.Context()); err != nil {
			writeError(w, r, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleRecentlyPlayed(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", s.deps.RecentLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(recentQuery{Limit: limit}); err != nil {
		writeError(w, r, err)
		return
	}

	cred, err := s.credential(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := s.deps.Player.RecentlyPlayed(r.Context(), cred, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []core.RecentlyPlayed{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := validate.Struct(historyQuery{Limit: limit}); err != nil {
		writeError(w, r, err)
		return
	}

	records, err := s.deps.Recorder.Last(limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleTrack runs one history cycle on demand.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Poller.Cycle(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trackResponse{
		Appended: res.Appended,
		Reason:   res.Reason,
		Record:   res.Record,
		Records:  len(res.Log),
	})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	action := playerAction{Action: chi.URLParam(r, "action")}
	if err := validate.Struct(action); err != nil {
		writeError(w, r, err)
		return
	}

	cred, err := s.credential(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	p := s.deps.Player
	switch action.Action {
	case "play":
		err = p.Play(r.Context(), cred)
	case "pause":
		err = p.Pause(r.Context(), cred)
	case "next":
		err = p.Next(r.Context(), cred)
	case "prev":
		err = p.Prev(r.Context(), cred)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	domainerrors "parliament/contexts/game-play/game-service/domain/errors"
	gamehttp "parliament/contexts/game-play/game-service/transport/http"
)

func writeGameError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, gamehttp.ErrorResponse{Code: code, Message: message})
}

func writeGameDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidInput):
		writeGameError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domainerrors.ErrGameNotFound),
		errors.Is(err, domainerrors.ErrRoundNotFound),
		errors.Is(err, domainerrors.ErrVotingEventNotFound),
		errors.Is(err, domainerrors.ErrVoterNotFound),
		errors.Is(err, domainerrors.ErrPartyNotFound),
		errors.Is(err, domainerrors.ErrVoteNotFound):
		writeGameError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateVote):
		writeGameError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, domainerrors.ErrDuplicateAffiliation):
		writeGameError(w, http.StatusConflict, "duplicate_affiliation", err.Error())
	case errors.Is(err, domainerrors.ErrGameEnded):
		writeGameError(w, http.StatusConflict, "game_ended", err.Error())
	case errors.Is(err, domainerrors.ErrGameNotStarted):
		writeGameError(w, http.StatusConflict, "game_not_started", err.Error())
	case errors.Is(err, domainerrors.ErrVotingEventNotActive):
		writeGameError(w, http.StatusConflict, "voting_event_not_active", err.Error())
	case errors.Is(err, domainerrors.ErrRoundNotActive):
		writeGameError(w, http.StatusConflict, "round_not_active", err.Error())
	default:
		writeGameError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func (s *Server) handleActiveGame(w http.ResponseWriter, r *http.Request) {
	resp, err := s.games.Handler.ActiveGameHandler(r.Context())
	if err != nil {
		writeGameDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleResyncGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := strconv.ParseInt(r.PathValue("game_id"), 10, 64)
	if err != nil {
		writeGameError(w, http.StatusBadRequest, "invalid_game_id", "game_id must be an integer")
		return
	}

	resp, err := s.games.Handler.ResyncGameHandler(r.Context(), gameID)
	if err != nil {
		writeGameDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterVoter(w http.ResponseWriter, r *http.Request) {
	gameHash := strings.TrimSpace(r.PathValue("game_hash"))
	if gameHash == "" {
		writeGameError(w, http.StatusBadRequest, "invalid_request", "game_hash is required")
		return
	}

	var req gamehttp.RegisterVoterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGameError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.games.Handler.RegisterVoterHandler(r.Context(), gameHash, req)
	if err != nil {
		writeGameDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleRegisterAffiliation(w http.ResponseWriter, r *http.Request) {
	var req gamehttp.RegisterAffiliationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGameError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.games.Handler.RegisterAffiliationHandler(r.Context(), req)
	if err != nil {
		writeGameDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	var req gamehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGameError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.games.Handler.CastVoteHandler(r.Context(), req)
	if err != nil {
		writeGameDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

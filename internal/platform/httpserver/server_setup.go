package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	setuperrors "parliament/contexts/game-play/setup-service/domain/errors"
	setuphttp "parliament/contexts/game-play/setup-service/transport/http"
)

func writeSetupError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, setuphttp.ErrorResponse{Code: code, Message: message})
}

func writeSetupDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, setuperrors.ErrInvalidConfiguration):
		writeSetupError(w, http.StatusBadRequest, "invalid_configuration", err.Error())
	case errors.Is(err, setuperrors.ErrNoSimulatedVoters):
		writeSetupError(w, http.StatusUnprocessableEntity, "no_simulated_voters", err.Error())
	default:
		writeSetupError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// handleUploadConfiguration accepts the round configuration as a multipart
// upload under the "file" field, or as the raw request body. Game name and
// real voter count ride along as form values or query parameters.
func (s *Server) handleUploadConfiguration(w http.ResponseWriter, r *http.Request) {
	csv, name, realVotersRaw, cleanup, err := resolveConfigurationUpload(r)
	if err != nil {
		writeSetupError(w, http.StatusBadRequest, "invalid_upload", err.Error())
		return
	}
	defer cleanup()

	realVoters := 0
	if realVotersRaw != "" {
		realVoters, err = strconv.Atoi(realVotersRaw)
		if err != nil || realVoters < 0 {
			writeSetupError(w, http.StatusBadRequest, "invalid_real_voters", "real_voters must be a non-negative integer")
			return
		}
	}

	resp, err := s.setup.Handler.UploadConfigurationHandler(r.Context(), csv, name, realVoters)
	if err != nil {
		writeSetupDomainError(w, err)
		return
	}

	// A fully simulated upload plays itself out from the pre-seeded ballots;
	// otherwise this settles the round gate and publishes the first snapshot.
	if _, err := s.games.Service.Resync(r.Context(), resp.GameID); err != nil {
		s.logger.Warn("post-upload resync failed",
			"event", "http_post_upload_resync_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"game_id", resp.GameID,
			"error", err.Error(),
		)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func resolveConfigurationUpload(r *http.Request) (io.Reader, string, string, func(), error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(4 << 20); err != nil {
			return nil, "", "", func() {}, errors.New("request is not a valid multipart upload")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, "", "", func() {}, errors.New("multipart field \"file\" is required")
		}
		cleanup := func() { _ = file.Close() }
		return file, r.FormValue("name"), r.FormValue("real_voters"), cleanup, nil
	}

	query := r.URL.Query()
	return r.Body, query.Get("name"), query.Get("real_voters"), func() {}, nil
}

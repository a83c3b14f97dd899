package httpadapter

import (
	"context"
	"io"
	"log/slog"

	"parliament/contexts/game-play/setup-service/application"
	"parliament/contexts/game-play/setup-service/domain/gameconfig"
	httptransport "parliament/contexts/game-play/setup-service/transport/http"
)

type Handler struct {
	Setup  *application.Service
	Logger *slog.Logger
}

// UploadConfigurationHandler parses the uploaded CSV and persists the game
// it describes.
func (h Handler) UploadConfigurationHandler(
	ctx context.Context,
	csv io.Reader,
	name string,
	realVoters int,
) (httptransport.UploadConfigurationResponse, error) {
	config, err := gameconfig.ReadVotingConfig(csv)
	if err != nil {
		return httptransport.UploadConfigurationResponse{}, err
	}
	result, err := h.Setup.UploadConfiguration(ctx, application.UploadConfigurationCommand{
		Config:     config,
		Name:       name,
		RealVoters: realVoters,
	})
	if err != nil {
		return httptransport.UploadConfigurationResponse{}, err
	}
	return httptransport.UploadConfigurationResponse{
		GameID:          result.Game.ID,
		GameHash:        result.Game.Hash,
		Name:            result.Game.Name,
		NVoters:         result.Game.NVoters,
		Status:          string(result.Game.Status),
		SimulatedVoters: len(result.SimulatedVoters),
	}, nil
}

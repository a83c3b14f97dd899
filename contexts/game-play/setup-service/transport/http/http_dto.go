package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type UploadConfigurationResponse struct {
	GameID          int64  `json:"game_id"`
	GameHash        string `json:"game_hash"`
	Name            string `json:"name"`
	NVoters         int    `json:"n_voters"`
	Status          string `json:"status"`
	SimulatedVoters int    `json:"simulated_voters"`
}

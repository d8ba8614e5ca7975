package model

type SendMessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type CreateSessionRequest struct {
	// FirstMessage is optional; when present it seeds the session title.
	FirstMessage string `json:"first_message"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type DeveloperModeRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

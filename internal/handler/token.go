package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/rangers-shop/api/internal/auth"
)

type TokenRequest struct {
	ClientID string `json:"client_id" validate:"required"`
}

type TokenResponse struct {
	Status      int    `json:"status"`
	AccessToken string `json:"access_token"`
}

// TokenHandler issues API access tokens for a caller-supplied client id.
type TokenHandler struct {
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewTokenHandler(tokens *auth.TokenManager) *TokenHandler {
	return &TokenHandler{tokens: tokens, validate: validator.New()}
}

func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var requestPayload TokenRequest

	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing Client Id. Try Again.")
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, "Missing Client Id. Try Again.")
		return
	}

	accessToken, err := h.tokens.Issue(requestPayload.ClientID)
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to issue access token")
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	respondWithJSON(w, http.StatusOK, TokenResponse{
		Status:      http.StatusOK,
		AccessToken: accessToken,
	})
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"

	"github.com/rangers-shop/api/internal/auth"
	"github.com/rangers-shop/api/internal/user"
)

type SignupRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserHandler serves signup and signin. Signin hands back an API access token
// rather than a session; the token's subject is the user id.
type UserHandler struct {
	svc      user.Service
	tokens   *auth.TokenManager
	validate *validator.Validate
}

func NewUserHandler(svc user.Service, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens, validate: validator.New()}
}

func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var requestPayload SignupRequest

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	domainUser := user.User{
		FirstName: requestPayload.FirstName,
		LastName:  requestPayload.LastName,
		Username:  requestPayload.Username,
		Email:     requestPayload.Email,
	}

	createdUser, err := h.svc.Register(r.Context(), &domainUser, requestPayload.Password)
	if err != nil {
		log.Warn().Err(err).Str("username", requestPayload.Username).Msg("handler: failed to register user")

		var message string
		switch {
		case errors.Is(err, user.ErrEmailExists):
			message = fmt.Sprintf("Email %s already exists. Please Try Again!", requestPayload.Email)
		case errors.Is(err, user.ErrUsernameExists):
			message = fmt.Sprintf("Username %s already exists. Please Try Again!", requestPayload.Username)
		default:
			message = "Failed to register user"
		}

		respondWithError(w, mapErrorToStatusCode(err), message)
		return
	}

	respondWithJSON(w, http.StatusCreated, UserResponse{
		ID:        createdUser.ID,
		FirstName: createdUser.FirstName,
		LastName:  createdUser.LastName,
		Username:  createdUser.Username,
		Email:     createdUser.Email,
		CreatedAt: createdUser.CreatedAt,
	})
}

func (h *UserHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var requestPayload SigninRequest

	if err := json.NewDecoder(r.Body).Decode(&requestPayload); err != nil {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request payload: %v", err))
		return
	}

	if err := h.validate.Struct(requestPayload); err != nil {
		respondWithValidationError(w, err)
		return
	}

	authenticatedUser, err := h.svc.Authenticate(r.Context(), requestPayload.Email, requestPayload.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondWithError(w, http.StatusUnauthorized, "Invalid Email and/or Password, Please Try Again!")
			return
		}
		log.Error().Err(err).Msg("handler: failed to authenticate user")
		respondWithError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	accessToken, err := h.tokens.Issue(authenticatedUser.ID.String())
	if err != nil {
		log.Error().Err(err).Msg("handler: failed to issue access token after signin")
		respondWithError(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	respondWithJSON(w, http.StatusOK, TokenResponse{
		Status:      http.StatusOK,
		AccessToken: accessToken,
	})
}

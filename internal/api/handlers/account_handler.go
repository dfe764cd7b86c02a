package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/models"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/rs/zerolog/log"
)

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(account models.Account) (string, error)
}

// AccountHandler handles registration and login requests.
type AccountHandler struct {
	service services.AccountServiceProvider
	tokens  TokenIssuer
	metrics *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler. m may be nil.
func NewAccountHandler(service services.AccountServiceProvider, tokens TokenIssuer, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{service: service, tokens: tokens, metrics: m}
}

// CredentialsPayload is the body of register and login requests. A nil
// field means the key was absent or null.
type CredentialsPayload struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// maxBodyBytes caps register and login request bodies.
const maxBodyBytes = 1 << 20

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsPayload, error) {
	var payload CredentialsPayload
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&payload)
	return payload, err
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
		return
	}
	writeError(w, http.StatusBadRequest, msgInvalidBody)
}

// Register handles new account registration.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeCredentials(w, r)
	if err != nil {
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		writeDecodeError(w, err)
		return
	}

	account, err := h.service.Register(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrMissingCredentials):
		h.metrics.RecordRegistration(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMissingCredentials)
		return
	default:
		// Duplicate emails land here too and stay an opaque 500.
		h.metrics.RecordRegistration(metrics.OutcomeStoreFailure)
		log.Error().Err(err).Msg("Failed to register user")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.metrics.RecordRegistration(metrics.OutcomeSuccess)
	log.Info().Int64("user_id", account.ID).Msg("User registered")
	writeJSON(w, http.StatusOK, map[string]string{"msg": "User created"})
}

// Login handles account authentication and JWT generation.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeCredentials(w, r)
	if err != nil {
		h.metrics.RecordLogin(metrics.OutcomeInvalid)
		writeDecodeError(w, err)
		return
	}

	account, err := h.service.Authenticate(r.Context(), payload.Email, payload.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrMissingCredentials):
		h.metrics.RecordLogin(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, msgMissingCredentials)
		return
	case errors.Is(err, services.ErrAccountNotFound):
		h.metrics.RecordLogin(metrics.OutcomeNotFound)
		writeError(w, http.StatusNotFound, msgUserNotFound)
		return
	case errors.Is(err, services.ErrInvalidPassword):
		h.metrics.RecordLogin(metrics.OutcomeBadPassword)
		log.Warn().Str("email", *payload.Email).Msg("Failed authentication attempt")
		writeError(w, http.StatusUnauthorized, msgInvalidPassword)
		return
	default:
		h.metrics.RecordLogin(metrics.OutcomeStoreFailure)
		log.Error().Err(err).Msg("Failed to authenticate user")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	token, err := h.tokens.Issue(account)
	if err != nil {
		h.metrics.RecordLogin(metrics.OutcomeTokenFailure)
		log.Error().Err(err).Int64("user_id", account.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	h.metrics.RecordLogin(metrics.OutcomeSuccess)
	writeJSON(w, http.StatusOK, map[string]string{"auth_token": token})
}

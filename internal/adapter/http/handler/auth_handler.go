package handler

import (
	"net/http"

	"github.com/iho/gowallet/internal/adapter/http/dto"
)

// AuthHandler handles registration, login and the caller's profile.
type AuthHandler struct {
	accounts accountService
	tokens   tokenIssuer
	observe  func(success bool)
}

// NewAuthHandler creates a new AuthHandler. observe may be nil.
func NewAuthHandler(accounts accountService, tokens tokenIssuer, observe func(success bool)) *AuthHandler {
	if observe == nil {
		observe = func(bool) {}
	}
	return &AuthHandler{accounts: accounts, tokens: tokens, observe: observe}
}

// Register opens a wallet and returns a token for it.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	account, err := h.accounts.Register(r.Context(), req.ToUseCaseInput(requestMeta(r)))
	h.observe(err == nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(h.accounts.PrincipalFor(account))
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeSuccess(w, http.StatusCreated, dto.AuthResponse{
		AccountID: account.ID,
		Name:      account.Name,
		Phone:     account.Phone,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Login exchanges a phone and pin for a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	p, err := h.accounts.Authenticate(r.Context(), req.ToUseCaseInput(requestMeta(r)))
	h.observe(err == nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	token, expiresAt, err := h.tokens.Generate(p)
	if err != nil {
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	writeSuccess(w, http.StatusOK, dto.AuthResponse{
		AccountID: p.AccountID,
		Phone:     p.Phone,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// Logout records the logout. Clients discard the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	h.accounts.Logout(r.Context(), p.AccountID, requestMeta(r))
	writeSuccess(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me returns the caller's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), p.AccountID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.AccountFromDomain(account, p.Role))
}

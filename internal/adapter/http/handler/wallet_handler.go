package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gowallet/internal/adapter/http/dto"
	"github.com/iho/gowallet/internal/usecase"
)

// WalletHandler serves the caller's own wallet.
type WalletHandler struct {
	transfers transferService
	wallets   walletService
	currency  string
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(transfers transferService, wallets walletService, currency string) *WalletHandler {
	if currency == "" {
		currency = usecase.DefaultCurrency
	}
	return &WalletHandler{transfers: transfers, wallets: wallets, currency: currency}
}

// Send moves money from the caller to the wallet registered to a phone number.
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.SendMoneyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.transfers.TransferToPhone(r.Context(), req.ToUseCaseInput(p.AccountID, requestMeta(r)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.SendMoneyFromResult(result, h.currency))
}

// Deposit credits the caller's wallet.
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req dto.DepositRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	result, err := h.transfers.Deposit(r.Context(), req.ToUseCaseInput(p.AccountID, requestMeta(r)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.DepositFromResult(result, h.currency))
}

// Balance returns the caller's balance.
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	balance, err := h.wallets.GetBalance(r.Context(), p.AccountID, requestMeta(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.BalanceResponse{Amount: balance, Currency: h.currency})
}

// Transactions lists the caller's ledger entries, most recent first.
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := h.wallets.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		Meta:      requestMeta(r),
		AccountID: p.AccountID,
		Page:      parseIntQuery(r, "page", 0),
		Size:      parseIntQuery(r, "size", 0),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.TransactionHistoryFromPage(page, p.AccountID, h.currency))
}

// Transaction returns one of the caller's ledger entries.
func (h *WalletHandler) Transaction(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing transaction ID")
		return
	}

	entry, err := h.wallets.GetTransaction(r.Context(), p.AccountID, id, requestMeta(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, dto.TransactionFromDomain(entry, p.AccountID, h.currency))
}

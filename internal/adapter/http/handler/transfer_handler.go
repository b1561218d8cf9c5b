package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/iho/bankledger/internal/adapter/http/dto"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	TransferByID(ctx context.Context, input usecase.TransferInput) (*domain.Transfer, error)
}

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC TransferService
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create executes a transfer. Failed transfers still carry the transfer
// record in the response body, with a status code derived from the cause.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	transfer, err := h.transferUC.TransferByID(r.Context(), input)
	w.Header().Set(dto.TransferStatusHeader, string(transfer.Status))
	if err != nil {
		writeJSON(w, mapDomainError(err), dto.TransferFromDomain(transfer))
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromDomain(transfer))
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fintrack/fintrack-be/internal/http/respond"
	"github.com/fintrack/fintrack-be/internal/logger"
	"github.com/fintrack/fintrack-be/internal/middleware"
	"github.com/fintrack/fintrack-be/internal/models"
	"github.com/fintrack/fintrack-be/internal/models/dto"
	"github.com/fintrack/fintrack-be/internal/storage"
)

const defaultListLimit = 1000

// TransactionHandler owns the transaction CRUD endpoints. Every route runs
// behind the bearer-token gate; the resolved user scopes all storage calls.
type TransactionHandler struct {
	transactions storage.TransactionStore
}

// NewTransactionHandler constructs the handler.
func NewTransactionHandler(transactions storage.TransactionStore) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Register attaches the transactions subtree to the mux.
func (h *TransactionHandler) Register(mux *http.ServeMux, authn func(http.Handler) http.Handler) {
	mux.Handle("/transactions/", authn(http.HandlerFunc(h.handle)))
}

func (h *TransactionHandler) handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		respond.Unauthorized(w, "Could not validate credentials")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/transactions/")
	switch {
	case rest == "" && r.Method == http.MethodPost:
		h.create(w, r, user)
	case rest == "" && r.Method == http.MethodGet:
		h.list(w, r, user)
	case rest != "" && r.Method == http.MethodDelete:
		h.delete(w, r, user, rest)
	default:
		respond.Error(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *TransactionHandler) create(w http.ResponseWriter, r *http.Request, user models.User) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if req.Type != models.TypeExpense && req.Type != models.TypeIncome {
		respond.Error(w, http.StatusBadRequest, "type must be 'expense' or 'income'")
		return
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		respond.Error(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
		return
	}

	created, err := h.transactions.CreateTransaction(r.Context(), models.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Date:        req.Date,
		OwnerID:     user.ID,
	})
	if err != nil {
		logger.Error("create transaction", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to create transaction")
		return
	}
	respond.JSON(w, http.StatusOK, created)
}

func (h *TransactionHandler) list(w http.ResponseWriter, r *http.Request, user models.User) {
	skip := parseQueryUint(r, "skip", 0)
	limit := parseQueryUint(r, "limit", defaultListLimit)

	out, err := h.transactions.ListTransactions(r.Context(), user.ID, skip, limit)
	if err != nil {
		logger.Error("list transactions", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	if out == nil {
		out = []models.Transaction{}
	}
	respond.JSON(w, http.StatusOK, out)
}

func (h *TransactionHandler) delete(w http.ResponseWriter, r *http.Request, user models.User, rawID string) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		respond.Error(w, http.StatusNotFound, "Transaction not found")
		return
	}

	if err := h.transactions.DeleteTransaction(r.Context(), id, user.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Transaction not found")
			return
		}
		logger.Error("delete transaction", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to delete transaction")
		return
	}
	respond.JSON(w, http.StatusOK, dto.DeleteTransactionResponse{OK: true})
}

// parseQueryUint reads a non-negative integer query parameter, falling back
// to def when absent or unparsable.
func parseQueryUint(r *http.Request, key string, def uint64) uint64 {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def
	}
	if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return v
	}
	return def
}

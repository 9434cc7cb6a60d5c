package models

import (
	"time"

	db "github.com/KoboTrade/KoboTrade-Backend/db/sqlc"
)

type WalletFundRequest struct {
	Amount      string `json:"amount" binding:"required"`
	Description string `json:"description"`
}

type WalletResponse struct {
	ID       int64  `json:"id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
	IsActive bool   `json:"is_active"`
}

type TransactionResponse struct {
	Reference     string    `json:"reference"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	BalanceBefore string    `json:"balance_before"`
	BalanceAfter  string    `json:"balance_after"`
	Description   string    `json:"description"`
	Source        string    `json:"source"`
	TradeID       *int64    `json:"trade_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Pagination is the standard list envelope for paged collections.
type Pagination struct {
	Page       int32 `json:"page"`
	PerPage    int32 `json:"per_page"`
	TotalItems int64 `json:"total_items"`
	TotalPages int64 `json:"total_pages"`
}

func NewPagination(page, perPage int32, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 15
	}
	totalPages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		totalPages++
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

func ToWalletResponse(wallet *db.Wallet) WalletResponse {
	return WalletResponse{
		ID:       wallet.ID,
		Currency: wallet.Currency,
		Balance:  wallet.Balance,
		IsActive: wallet.IsActive,
	}
}

func ToTransactionResponse(txn *db.WalletTransaction) TransactionResponse {
	response := TransactionResponse{
		Reference:     txn.Reference,
		Type:          txn.Type,
		Amount:        txn.Amount,
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		Description:   txn.Description,
		Source:        txn.Source,
		CreatedAt:     txn.CreatedAt,
	}
	if txn.TradeID.Valid {
		tradeID := txn.TradeID.Int64
		response.TradeID = &tradeID
	}
	return response
}

func ToTransactionListResponse(txns []db.WalletTransaction, pagination Pagination) TransactionListResponse {
	out := TransactionListResponse{
		Transactions: make([]TransactionResponse, 0, len(txns)),
		Pagination:   pagination,
	}
	for i := range txns {
		out.Transactions = append(out.Transactions, ToTransactionResponse(&txns[i]))
	}
	return out
}

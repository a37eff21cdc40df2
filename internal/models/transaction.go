package models

// Transaction kinds. Anything else is rejected at the API boundary.
const (
	TypeExpense = "expense"
	TypeIncome  = "income"
)

// Transaction is a single income or expense entry owned by exactly one user.
// Date is an ISO calendar date (YYYY-MM-DD) with no timezone semantics.
type Transaction struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`
	Date        string  `json:"date"`
	OwnerID     int64   `json:"owner_id"`
}

package dto

type CreateTransactionRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Type        string  `json:"type"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory"`
	Date        string  `json:"date"`
}

type DeleteTransactionResponse struct {
	OK bool `json:"ok"`
}

package taxbracket

type BracketRequest struct {
	MinIncome      string  `json:"min_income" binding:"required"`
	MaxIncome      *string `json:"max_income"`
	Rate           string  `json:"rate" binding:"required"`
	SubtractAmount string  `json:"subtract_amount"`
	Order          int     `json:"order" binding:"required"`
}

type ReplaceBracketsRequest struct {
	Brackets []BracketRequest `json:"brackets" binding:"required,min=1,dive"`
}

type BracketResponse struct {
	ID             string  `json:"id"`
	MinIncome      string  `json:"min_income"`
	MaxIncome      *string `json:"max_income,omitempty"`
	Rate           string  `json:"rate"`
	SubtractAmount string  `json:"subtract_amount"`
	Order          int     `json:"order"`
}

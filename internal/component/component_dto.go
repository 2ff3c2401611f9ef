package component

type CreateComponentRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=EARNING DEDUCTION TAX"`
	Method  string `json:"method" binding:"required,oneof=FIXED FORMULA"`
	Formula string `json:"formula"`
	Amount  string `json:"amount"`
	Order   int    `json:"order" binding:"required"`
}

type UpdateComponentRequest struct {
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=EARNING DEDUCTION TAX"`
	Method  string `json:"method" binding:"required,oneof=FIXED FORMULA"`
	Formula string `json:"formula"`
	Amount  string `json:"amount"`
	Order   int    `json:"order" binding:"required"`
}

type ComponentResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Method   string `json:"method"`
	Formula  string `json:"formula,omitempty"`
	Amount   string `json:"amount"`
	IsSystem bool   `json:"is_system"`
	Order    int    `json:"order"`
}

package response

import (
	"encoding/json"
	"time"
)

type AccountResponse struct {
	UUID      string    `json:"uuid"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CategoryResponse struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProductResponse struct {
	UUID        string            `json:"uuid"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       string            `json:"price"`
	Quantity    int               `json:"quantity"`
	InStock     bool              `json:"in_stock"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type SessionResponse struct {
	Authenticated bool             `json:"authenticated"`
	Account       *AccountResponse `json:"account,omitempty"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type CursorData struct {
	Datetime string `json:"datetime"`
	ID       int    `json:"id,omitempty"`
}

type CursorResponse struct {
	Size       int             `json:"size"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		HasNext    bool   `json:"has_next"`
		NextCursor string `json:"next_cursor"`
	} `json:"pagination"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}

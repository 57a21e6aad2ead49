package request

// SignUpRequest leaves presence and length rules to the account
// validator so every violation is reported together.
type SignUpRequest struct {
	Email                string  `json:"email" form:"email" validate:"omitempty,max=255"`
	Password             *string `json:"password" form:"password"`
	PasswordConfirmation *string `json:"password_confirmation" form:"password_confirmation" validate:"omitempty,max=72"`
	FirstName            string  `json:"first_name" form:"first_name" validate:"max=100"`
	LastName             string  `json:"last_name" form:"last_name" validate:"max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"max=255"`
	Password string `json:"password" form:"password" validate:"max=72"`
}

type CategoryRequest struct {
	Name string `json:"name" validate:"max=255"`
}

// ProductRequest keeps price as a string so decimal values survive JSON
// decoding without float rounding.
type ProductRequest struct {
	Name        string  `json:"name" validate:"max=255"`
	Description string  `json:"description" validate:"max=1000"`
	Price       *string `json:"price" validate:"omitempty,numeric"`
	Quantity    *int    `json:"quantity" validate:"omitempty,min=0"`
	CategoryID  string  `json:"category_id" validate:"omitempty,uuid"`
}

type CursorRequest struct {
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Cursor string `form:"cursor"`
}

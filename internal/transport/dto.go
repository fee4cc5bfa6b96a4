package transport

type Credentials struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
}

type CreateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

// UpdateProductRequest carries a partial update: nil fields are left alone.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

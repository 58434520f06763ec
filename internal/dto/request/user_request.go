package request

// CreateUserRequest is the admin user-creation form.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=client driver company admin"`
}

// UpdateUserRequest is the admin user-edit form; empty fields keep
// their current value.
type UpdateUserRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Status  string `json:"status" binding:"omitempty,oneof=active suspended"`
}

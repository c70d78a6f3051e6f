package dto

// RegisterRequest alta de usuario; Password llega en texto plano y se hashea en el hook de alta.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,bcryptmax"`
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName" validate:"required,max=255"`
}

// LoginRequest credenciales.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT firmado y el usuario.
type LoginResponse struct {
	Token string   `json:"token"`
	User  UserRead `json:"user"`
}

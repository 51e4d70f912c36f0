package dto

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginUser datos públicos del usuario autenticado.
type LoginUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
}

// LoginResponse token Bearer y usuario autenticado.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

package dto

// LoginRequest admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse issued token.
type LoginResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// loginResponse carries the issued session token.
type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

package auth

// User is the administrator account allowed to use the API.
type User struct {
	Username     string
	PasswordHash []byte
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

// UserSummary is the public view of a user.
type UserSummary struct {
	Username string `json:"username"`
}

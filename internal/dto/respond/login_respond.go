package respond

// UserRespond is the public view of a user account.
type UserRespond struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Verified bool   `json:"verified"`
	CreatedAt string `json:"created_at"`
}

// LoginRespond carries the token pair plus the authenticated user.
type LoginRespond struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserRespond `json:"user"`
}

// SignupRespond confirms account creation; the account still needs
// email verification before login.
type SignupRespond struct {
	User UserRespond `json:"user"`
	// VerifyToken is returned in dev mode only, where no mail
	// transport is configured.
	VerifyToken string `json:"verify_token,omitempty"`
}

package request

// ContactRequest is the public contact-form submission.
type ContactRequest struct {
	Fullname string `json:"fullname" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Tell     string `json:"tell" binding:"required"`
}

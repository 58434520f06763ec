package request

// AddDriverRequest creates a driver account plus its company profile.
type AddDriverRequest struct {
	Patronim     string `json:"patronim" binding:"required"`
	Telephone    string `json:"telephone" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"motDePasse" binding:"required,min=6"`
	CoverageZone string `json:"zoneCouverture" binding:"required"`
}

// UpdateDriverRequest edits a driver profile; empty fields are kept.
type UpdateDriverRequest struct {
	Patronim     string `json:"patronim"`
	Telephone    string `json:"telephone"`
	Status       string `json:"status" binding:"omitempty,oneof=available busy suspended offline"`
	CoverageZone string `json:"zoneCouverture"`
}

package request

// UpdateCompanyProfileRequest edits the company profile; empty fields
// keep their current value.
type UpdateCompanyProfileRequest struct {
	Name        string `json:"name"`
	TaxID       string `json:"tax_id"`
	LegalStatus string `json:"legal_status"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LogoURL     string `json:"logo_url"`
}

// ValidateCompanyRequest approves or rejects an onboarding request.
type ValidateCompanyRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
}

package request

// CompanySignupRequest onboards a delivery company. The account stays
// pending until an admin approves the request.
type CompanySignupRequest struct {
	CompanyName string `json:"company_name" binding:"required"`
	TaxID       string `json:"tax_id" binding:"required"`
	LegalStatus string `json:"legal_status" binding:"required"`
	ContactName string `json:"contact_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"required"`
	Address     string `json:"address" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}

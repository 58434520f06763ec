package repository

import "gorm.io/gorm"

// Repositories aggregates all Repository instances. It is the injection
// entry point: the service layer reaches the data layer only through it.
type Repositories struct {
	db           *gorm.DB
	User         UserRepository
	Company      CompanyRepository
	Driver       DriverRepository
	Delivery     DeliveryRepository
	Conversation ConversationRepository
	Message      MessageRepository
	Contact      ContactRepository
}

// NewRepositories builds every Repository over the given gorm handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:           db,
		User:         NewUserRepository(db),
		Company:      NewCompanyRepository(db),
		Driver:       NewDriverRepository(db),
		Delivery:     NewDeliveryRepository(db),
		Conversation: NewConversationRepository(db),
		Message:      NewMessageRepository(db),
		Contact:      NewContactRepository(db),
	}
}

// Transaction runs fn with a Repositories bound to one database
// transaction; an error from fn rolls everything back.
func (r *Repositories) Transaction(fn func(txRepos *Repositories) error) error {
	if r.db == nil {
		// Assembled field-by-field (fakes, partial wiring): no shared
		// handle to open a transaction on.
		return fn(r)
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

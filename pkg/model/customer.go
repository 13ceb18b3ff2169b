package model

// CustomerRecord is a customer profile keyed by the messaging platform's user id.
type CustomerRecord struct {
	ID           string `json:"id" bson:"id" validate:"required"`
	Username     string `json:"username" bson:"username"`
	FullName     string `json:"full_name" bson:"full_name"`
	Phone        string `json:"phone" bson:"phone"`
	Email        string `json:"email,omitempty" bson:"email" validate:"omitempty,email"`
	LoyaltyCount int    `json:"loyalty_count" bson:"loyalty_count" validate:"min=0"`
}

// CustomerProfile is what the platform knows about the person talking to the bot.
type CustomerProfile struct {
	ID        string `json:"id" validate:"required"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"omitempty,email"`
}

func (p CustomerProfile) FullName() string {
	return p.FirstName + p.LastName
}

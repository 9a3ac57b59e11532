package entities

// Identity represents a locally registered account.
// The password is stored as given; it is never hashed.
type Identity struct {
	Username string `json:"username" validate:"required"`
	Phone    string `json:"phone" validate:"required"` // WhatsApp number, used as recovery key
	Password string `json:"password,omitempty" validate:"required"`
}

// NewIdentity creates an identity from the registration form values.
func NewIdentity(username, phone, password string) *Identity {
	return &Identity{
		Username: username,
		Phone:    phone,
		Password: password,
	}
}

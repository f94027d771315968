package entity

// ExternalUserData is the only view of a user the payment side may hold.
type ExternalUserData struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

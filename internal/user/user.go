package user

// User is an account identified by its phone number.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Number   string `json:"number"`
	Password string `json:"password,omitempty"`
}

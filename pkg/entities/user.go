package entities

// User is the account an Author hangs off. The API key hash never leaves the
// store layer.
type User struct {
	ID       int32
	Username string
	Name     string
}

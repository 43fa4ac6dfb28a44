package auth

// Principal is the identity behind an authenticated request.
type Principal struct {
	UserID   int32
	Username string
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == 0
}

package model

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID string
	Role   string
}

func (i Identity) IsVolunteer() bool {
	return i.Role == RoleVolunteer
}

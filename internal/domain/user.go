package domain

// User is the authenticated caller of an operation.
type User struct {
	ID      string
	Name    string
	IsAdmin bool
}

// CanAccess reports whether u may read or act on an order owned by ownerID.
func (u User) CanAccess(ownerID string) bool {
	return u.IsAdmin || u.ID == ownerID
}

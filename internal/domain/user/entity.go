package user

// User represents a user record.
//
// ID is assigned by the store on insert; zero means "not yet stored".
// Values handed out by the store are snapshots and never alias stored rows.
type User struct {
	ID    ID
	Name  string
	Email string
}

// ID represents the user's unique identifier
type ID int64

// NewUser creates a user that has not been stored yet
func NewUser(name, email string) User {
	return User{Name: name, Email: email}
}

// IsStored reports whether the user carries a store-assigned ID
func (u User) IsStored() bool {
	return u.ID != 0
}

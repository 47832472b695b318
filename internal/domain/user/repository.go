package user

import "context"

// Repository mediates between the view-model and the user DAO.
// It delegates every call unchanged.
type Repository struct {
	dao DAO
}

// NewRepository creates a new user repository
func NewRepository(dao DAO) *Repository {
	return &Repository{dao: dao}
}

// GetAllUsers streams all users, see DAO.GetAllUsers
func (r *Repository) GetAllUsers(ctx context.Context) <-chan []User {
	return r.dao.GetAllUsers(ctx)
}

// InsertUser inserts or replaces a user
func (r *Repository) InsertUser(ctx context.Context, u User) (User, error) {
	return r.dao.InsertUser(ctx, u)
}

// DeleteUser deletes a user
func (r *Repository) DeleteUser(ctx context.Context, u User) error {
	return r.dao.DeleteUser(ctx, u)
}

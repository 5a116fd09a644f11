package domain

// User is an author of posts and comments.
// Email is unique across all users for the lifetime of the store.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

type CreateUserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
	Age   *int   `validate:"omitempty,gte=0"`
}

// UserPatch carries a partial update. A nil field means "leave unchanged".
type UserPatch struct {
	Name  *string
	Email *string `validate:"omitempty,email"`
	Age   *int
}

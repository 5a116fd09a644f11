package domain

// Post always references an existing User through Author.
// Only published posts are visible on the "post" change topic.
type Post struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
	Author    string `json:"author"`
}

// Title and Body may be empty; only the author reference is constrained.
type CreatePostInput struct {
	Title     string
	Body      string
	Published bool
	Author    string `validate:"required"`
}

// PostPatch carries a partial update. A nil field means "leave unchanged".
type PostPatch struct {
	Title     *string
	Body      *string
	Published *bool
}

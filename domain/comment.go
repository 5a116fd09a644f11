package domain

// Comment references an existing User (Author) and an existing Post (Post).
// It never outlives either of them.
type Comment struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

// Text may be empty; only the entity references are constrained.
type CreateCommentInput struct {
	Text   string
	Author string `validate:"required"`
	Post   string `validate:"required"`
}

// CommentPatch carries a partial update. A nil field means "leave unchanged".
type CommentPatch struct {
	Text *string
}

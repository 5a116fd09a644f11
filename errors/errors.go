package errors

import "fmt"

var (
	ErrEmailTaken      = fmt.Errorf("email taken")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrPostNotFound    = fmt.Errorf("post not found")
	ErrCommentNotFound = fmt.Errorf("comment not found")
	ErrWorkerPanic     = fmt.Errorf("worker panic")
)

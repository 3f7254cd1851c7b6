package domain

import (
	"context"
	"time"
)

type EntryComment struct {
	ID        string
	EntryID   string
	AuthorID  string
	Content   string
	CreatedAt time.Time
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *EntryComment) error
	GetCommentsByEntryID(ctx context.Context, entryID string) ([]*EntryComment, error)
}

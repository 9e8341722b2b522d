package service

import "errors"

// Failure taxonomy for the messaging workflow. Handlers map these to
// HTTP statuses; WebSocket event processors map them to error frames.
var (
	ErrSenderNotFound  = errors.New("sender not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrMessageNotFound = errors.New("message not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrNotMember       = errors.New("user is not a member of this group")
	ErrNotSender       = errors.New("only the sender can modify this message")
	ErrEmptyMessage    = errors.New("message must contain text or a file")
	ErrAlreadyMember   = errors.New("user is already a member of this group")
)

package service

import "errors"

var (
	ErrNotChannelMember = errors.New("user is not a member of this channel")
	ErrEmptyContent     = errors.New("message content is empty")
	ErrContentTooLong   = errors.New("message content exceeds the maximum length")
	ErrInvalidOffset    = errors.New("offset must be non-negative")
	ErrInvalidChannel   = errors.New("invalid channel name")
	ErrInvalidUsername  = errors.New("invalid username")
)

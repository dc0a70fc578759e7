package service

import "errors"

var (
	ErrMissingID          = errors.New("ID is required")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResumeNotFound     = errors.New("resume not found")
	ErrBlobNotFound       = errors.New("blob not found")
)

package service

import "errors"

var (
	// ErrLinkNotFound means the short code resolves to nothing.
	ErrLinkNotFound = errors.New("link not found")
	// ErrAliasConflict means the requested custom alias is already taken.
	ErrAliasConflict = errors.New("custom alias already in use")
	// ErrInvalidURL means the submitted URL is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid original url")
)

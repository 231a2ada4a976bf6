package core

import "errors"

var (
	ErrPaneNotFound     = errors.New("pane not found")
	ErrNoMainPane       = errors.New("no main pane registered")
	ErrDisposed         = errors.New("script instance disposed")
	ErrInsufficientData = errors.New("insufficient data")
	ErrInvalidPosition  = errors.New("invalid position descriptor")
)

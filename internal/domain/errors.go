package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgItemNotFound    = "item not found"
	ErrMsgNotActivatable  = "item is not activatable"
	ErrMsgNotEntitled     = "not entitled"
	ErrMsgOnCooldown      = "still on cooldown"
	ErrMsgUnknownCategory = "unknown category"
	ErrMsgInvalidInput    = "invalid input"
	ErrMsgNoSession       = "no active session"
)

// Sentinel errors for the cosmetics core
var (
	ErrItemNotFound    = errors.New(ErrMsgItemNotFound)
	ErrNotActivatable  = errors.New(ErrMsgNotActivatable)
	ErrNotEntitled     = errors.New(ErrMsgNotEntitled)
	ErrOnCooldown      = errors.New(ErrMsgOnCooldown)
	ErrUnknownCategory = errors.New(ErrMsgUnknownCategory)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)
	ErrNoSession       = errors.New(ErrMsgNoSession)
)

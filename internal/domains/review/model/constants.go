package model

const (
	// Score bounds
	MinScore = 1
	MaxScore = 10

	// Content limits
	MaxTextLength = 10000

	// Pagination
	DefaultLimit = 20
	MaxLimit     = 100
)

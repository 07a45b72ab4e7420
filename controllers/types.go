package controllers

import "time"

// Shared controller constants.
const (
	DefaultContextTimeout = 30 * time.Second
	DefaultCacheTTL       = 5 * time.Minute

	MaxPageSize   = 100
	MaxPageNumber = 1000000
)

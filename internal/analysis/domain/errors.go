package domain

import "errors"

var (
	ErrNoImages            = errors.New("at least one image is required")
	ErrAnalysisUnavailable = errors.New("plan analysis unavailable")
)

package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Validation errors
	ErrInvalidRequest = errors.New("invalid request")

	// Not found errors. Ownership mismatch is reported identically so
	// roadmap IDs cannot be probed across users.
	ErrRoadmapNotFound = errors.New("roadmap not found or access denied")

	// Generation errors
	ErrGenerationFailed = errors.New("roadmap generation failed")
)

// Context keys for error values
const (
	RoadmapIDKey = "roadmap_id"
	UserEmailKey = "user_email"
)

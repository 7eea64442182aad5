// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are stable, lowercase snake_case strings that clients branch on; the
// message next to them is for humans. Every error response carries one.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "not_found",
//	  "message": "mentor not found"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// ErrCodeUnavailable means the store (or cache) failed; retrying later
	// may succeed.
	ErrCodeUnavailable = "dependency_unavailable"
	// ErrCodeConstraint reports a violated relational invariant.
	ErrCodeConstraint = "constraint_violation"
)

package progress

import "errors"

// Business-rule failures surfaced to the HTTP layer. All of them are detected
// before any mutation happens.
var (
	// ErrNotFound covers missing courses, lessons and enrollments, including
	// enrollments not owned by the caller.
	ErrNotFound = errors.New("record not found")

	// ErrNotPublished is returned when enrolling into a draft or archived course.
	ErrNotPublished = errors.New("course is not published")

	// ErrPermissionDenied is returned when the caller's role does not allow the operation.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDuplicateEnrollment is returned on re-enrollment attempts.
	ErrDuplicateEnrollment = errors.New("already enrolled in this course")
)

package progress

import "log"

// IntegrityIssue describes an enrollment whose progress-row count does not
// match the number of lessons its course had at enrollment time. This state
// should be impossible given transactional provisioning; finding one means a
// bug, not a recoverable condition.
type IntegrityIssue struct {
	EnrollmentID  uint  `json:"enrollment_id"`
	StudentID     uint  `json:"student_id"`
	CourseID      uint  `json:"course_id"`
	ProgressRows  int64 `json:"progress_rows"`
	CourseLessons int64 `json:"course_lessons"`
}

// CheckIntegrity sweeps all enrollments and reports provisioning mismatches.
// Lessons added to a course after enrollment are intentionally excluded: the
// progress scope is frozen at enrollment time, so only lessons that existed
// then are counted.
func (s *Service) CheckIntegrity() ([]IntegrityIssue, error) {
	var rows []IntegrityIssue
	err := s.db.Raw(`
		SELECT e.id AS enrollment_id,
		       e.student_id AS student_id,
		       e.course_id AS course_id,
		       (SELECT COUNT(*) FROM progress_records p
		         WHERE p.enrollment_id = e.id AND p.deleted_at IS NULL) AS progress_rows,
		       (SELECT COUNT(*) FROM lessons l
		         JOIN modules m ON m.id = l.module_id AND m.deleted_at IS NULL
		         WHERE m.course_id = e.course_id
		           AND l.created_at <= e.enrolled_at
		           AND l.deleted_at IS NULL) AS course_lessons
		FROM enrollments e
		WHERE e.deleted_at IS NULL`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var issues []IntegrityIssue
	for _, row := range rows {
		if row.ProgressRows != row.CourseLessons {
			issues = append(issues, row)
			log.Printf("[PROGRESS-INTEGRITY] ERROR: enrollment %d (student %d, course %d) has %d progress rows, expected %d",
				row.EnrollmentID, row.StudentID, row.CourseID, row.ProgressRows, row.CourseLessons)
		}
	}
	return issues, nil
}

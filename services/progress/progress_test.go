package progress

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/models"
	course "lms/models/course"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:progress_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&course.Course{},
		&course.Module{},
		&course.Lesson{},
		&course.Enrollment{},
		&course.Progress{},
		&course.Certificate{},
		&course.QuizQuestion{},
		&course.QuizOption{},
		&course.QuizAttempt{},
	)
	require.NoError(t, err)
	return db
}

var userCounter int64

func createUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()
	user := models.User{
		Email:    fmt.Sprintf("user%d@test.com", atomic.AddInt64(&userCounter, 1)),
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// createCourseWithLessons builds the canonical fixture: two modules, module 1
// with two lessons (10 and 15 minutes), module 2 with one lesson (20 minutes).
// Returned lessons are in course order.
func createCourseWithLessons(t *testing.T, db *gorm.DB, instructorID uint) (course.Course, []course.Lesson) {
	t.Helper()

	c := course.Course{
		Title:        "Go for Beginners",
		Slug:         fmt.Sprintf("go-for-beginners-%d", atomic.AddInt64(&userCounter, 1)),
		Description:  "An introductory course",
		InstructorID: instructorID,
		Level:        course.LevelBeginner,
		Status:       course.StatusPublished,
	}
	require.NoError(t, db.Create(&c).Error)

	m1 := course.Module{CourseID: c.ID, Title: "Basics", OrderIndex: 1}
	m2 := course.Module{CourseID: c.ID, Title: "Beyond Basics", OrderIndex: 2}
	require.NoError(t, db.Create(&m1).Error)
	require.NoError(t, db.Create(&m2).Error)

	lessons := []course.Lesson{
		{ModuleID: m1.ID, Title: "Hello World", ContentType: course.ContentTypeVideo, DurationMinutes: 10, OrderIndex: 1},
		{ModuleID: m1.ID, Title: "Variables", ContentType: course.ContentTypeArticle, DurationMinutes: 15, OrderIndex: 2},
		{ModuleID: m2.ID, Title: "Functions", ContentType: course.ContentTypeVideo, DurationMinutes: 20, OrderIndex: 1},
	}
	for i := range lessons {
		require.NoError(t, db.Create(&lessons[i]).Error)
	}
	return c, lessons
}

func TestCourseTotals(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	totals, err := svc.Totals(c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.TotalModules)
	assert.Equal(t, int64(3), totals.TotalLessons)
	assert.Equal(t, int64(45), totals.TotalDuration)
}

func TestEnrollCreatesProgressRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, enrollment.IsActive)
	assert.False(t, enrollment.EnrolledAt.IsZero())
	assert.Nil(t, enrollment.CompletedAt)

	var rows int64
	db.Model(&course.Progress{}).Where("enrollment_id = ?", enrollment.ID).Count(&rows)
	assert.Equal(t, int64(3), rows)

	pct, err := svc.Percentage(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)
}

func TestEnrollDuplicate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	_, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(student.ID, c.ID)
	assert.ErrorIs(t, err, ErrDuplicateEnrollment)

	var enrollments, rows int64
	db.Model(&course.Enrollment{}).Where("student_id = ?", student.ID).Count(&enrollments)
	db.Model(&course.Progress{}).Count(&rows)
	assert.Equal(t, int64(1), enrollments)
	assert.Equal(t, int64(3), rows)
}

func TestEnrollRequiresStudentRole(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	_, err := svc.Enroll(instructor.ID, c.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestEnrollUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)

	draft := course.Course{
		Title:        "Unfinished",
		Slug:         "unfinished",
		InstructorID: instructor.ID,
		Status:       course.StatusDraft,
	}
	require.NoError(t, db.Create(&draft).Error)

	_, err := svc.Enroll(student.ID, draft.ID)
	assert.ErrorIs(t, err, ErrNotPublished)

	_, err = svc.Enroll(student.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteLesson(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	record, err := svc.CompleteLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.True(t, record.Completed)
	assert.NotNil(t, record.CompletedAt)

	pct, err := svc.Percentage(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, pct)

	var fresh course.Enrollment
	require.NoError(t, db.First(&fresh, enrollment.ID).Error)
	assert.False(t, fresh.IsCompleted())

	next, err := svc.NextLesson(enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, lessons[1].ID, next.ID)
}

func TestCompleteLessonIdempotent(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	_, err = svc.CompleteLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	record, err := svc.CompleteLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.True(t, record.Completed)

	pct, err := svc.Percentage(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.33, pct)
}

func TestCompleteAllLessons(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	for _, lesson := range lessons {
		_, err := svc.CompleteLesson(enrollment.ID, lesson.ID)
		require.NoError(t, err)
	}

	pct, err := svc.Percentage(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, pct)

	var fresh course.Enrollment
	require.NoError(t, db.First(&fresh, enrollment.ID).Error)
	assert.True(t, fresh.IsCompleted())
	assert.NotNil(t, fresh.CompletedAt)

	next, err := svc.NextLesson(enrollment.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestResetLessonRevertsCompletion(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)
	for _, lesson := range lessons {
		_, err := svc.CompleteLesson(enrollment.ID, lesson.ID)
		require.NoError(t, err)
	}

	record, err := svc.ResetLesson(enrollment.ID, lessons[2].ID)
	require.NoError(t, err)
	assert.False(t, record.Completed)
	assert.Nil(t, record.CompletedAt)

	pct, err := svc.Percentage(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 66.67, pct)

	var fresh course.Enrollment
	require.NoError(t, db.First(&fresh, enrollment.ID).Error)
	assert.False(t, fresh.IsCompleted())
	assert.Nil(t, fresh.CompletedAt)
}

func TestCompletionFlagStaysInSync(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	// After every mutation the cached flag and the recomputed percentage
	// must tell the same story.
	checkSync := func() {
		t.Helper()
		pct, err := svc.Percentage(enrollment.ID)
		require.NoError(t, err)
		var fresh course.Enrollment
		require.NoError(t, db.First(&fresh, enrollment.ID).Error)
		assert.Equal(t, pct == 100.0, fresh.IsCompleted())
	}

	for _, lesson := range lessons {
		_, err := svc.CompleteLesson(enrollment.ID, lesson.ID)
		require.NoError(t, err)
		checkSync()
	}
	_, err = svc.ResetLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	checkSync()
	_, err = svc.CompleteLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)
	checkSync()
}

func TestScalarAndBulkPathsAgree(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)

	// Three enrollments at 0/3, 1/3 and 3/3, plus one with no progress rows.
	var ids []uint
	for _, completions := range []int{0, 1, 3} {
		student := createUser(t, db, models.RoleStudent)
		c, lessons := createCourseWithLessons(t, db, instructor.ID)
		enrollment, err := svc.Enroll(student.ID, c.ID)
		require.NoError(t, err)
		for j := 0; j < completions; j++ {
			_, err := svc.CompleteLesson(enrollment.ID, lessons[j].ID)
			require.NoError(t, err)
		}
		ids = append(ids, enrollment.ID)
	}

	empty := course.Course{
		Title:        "Empty Course",
		Slug:         "empty-course",
		InstructorID: instructor.ID,
		Status:       course.StatusPublished,
	}
	require.NoError(t, db.Create(&empty).Error)
	student := createUser(t, db, models.RoleStudent)
	enrollment, err := svc.Enroll(student.ID, empty.ID)
	require.NoError(t, err)
	ids = append(ids, enrollment.ID)

	summaries, err := svc.SummarizeEnrollments(ids)
	require.NoError(t, err)
	require.Len(t, summaries, len(ids))

	for _, id := range ids {
		scalar, err := svc.Percentage(id)
		require.NoError(t, err)
		assert.Equal(t, scalar, summaries[id].ProgressPercentage,
			"scalar and bulk paths diverged for enrollment %d", id)
	}
	assert.Equal(t, 0.0, summaries[enrollment.ID].ProgressPercentage)
	assert.Equal(t, int64(0), summaries[enrollment.ID].TotalLessons)
}

func TestNextLessonOrdering(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	// Completing a later lesson first must not move the pointer past
	// earlier incomplete ones.
	_, err = svc.CompleteLesson(enrollment.ID, lessons[1].ID)
	require.NoError(t, err)

	next, err := svc.NextLesson(enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, lessons[0].ID, next.ID)

	_, err = svc.CompleteLesson(enrollment.ID, lessons[0].ID)
	require.NoError(t, err)

	next, err = svc.NextLesson(enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, lessons[2].ID, next.ID)
}

func TestTouchLesson(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	var before course.Progress
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessons[0].ID).First(&before).Error)

	require.NoError(t, svc.TouchLesson(enrollment.ID, lessons[0].ID))

	var after course.Progress
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessons[0].ID).First(&after).Error)
	assert.False(t, after.LastAccessed.Before(before.LastAccessed))
	assert.False(t, after.Completed)

	assert.ErrorIs(t, svc.TouchLesson(enrollment.ID, 9999), ErrNotFound)
}

func TestGetOwnedEnrollment(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	other := createUser(t, db, models.RoleStudent)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	owned, err := svc.GetOwnedEnrollment(enrollment.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, owned.ID)

	// A foreign enrollment looks like a missing one.
	_, err = svc.GetOwnedEnrollment(enrollment.ID, other.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, _ := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(enrollment.ID, student.ID))

	var fresh course.Enrollment
	require.NoError(t, db.First(&fresh, enrollment.ID).Error)
	assert.False(t, fresh.IsActive)

	// History survives deactivation
	var rows int64
	db.Model(&course.Progress{}).Where("enrollment_id = ?", enrollment.ID).Count(&rows)
	assert.Equal(t, int64(3), rows)
}

func TestCheckIntegrity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)
	c, lessons := createCourseWithLessons(t, db, instructor.ID)

	enrollment, err := svc.Enroll(student.ID, c.ID)
	require.NoError(t, err)

	issues, err := svc.CheckIntegrity()
	require.NoError(t, err)
	assert.Empty(t, issues)

	// Simulate a lost provisioning row
	require.NoError(t, db.Unscoped().
		Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessons[0].ID).
		Delete(&course.Progress{}).Error)

	issues, err = svc.CheckIntegrity()
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, enrollment.ID, issues[0].EnrollmentID)
	assert.Equal(t, int64(2), issues[0].ProgressRows)
	assert.Equal(t, int64(3), issues[0].CourseLessons)
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	instructor := createUser(t, db, models.RoleInstructor)
	student := createUser(t, db, models.RoleStudent)

	courseA, lessonsA := createCourseWithLessons(t, db, instructor.ID)
	courseB, lessonsB := createCourseWithLessons(t, db, instructor.ID)

	enrollmentA, err := svc.Enroll(student.ID, courseA.ID)
	require.NoError(t, err)
	enrollmentB, err := svc.Enroll(student.ID, courseB.ID)
	require.NoError(t, err)

	for _, lesson := range lessonsA {
		_, err := svc.CompleteLesson(enrollmentA.ID, lesson.ID)
		require.NoError(t, err)
	}
	_, err = svc.CompleteLesson(enrollmentB.ID, lessonsB[0].ID)
	require.NoError(t, err)

	stats, err := svc.Dashboard(student.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalCourses)
	assert.Equal(t, int64(1), stats.ActiveCourses)
	assert.Equal(t, int64(1), stats.CompletedCourses)
	assert.Equal(t, int64(1), stats.CompletedThisMonth)
	assert.Equal(t, int64(4), stats.TotalLessonsCompleted)
	assert.Equal(t, int64(55), stats.TotalTimeSpentMinutes)
	assert.Equal(t, 0.92, stats.TotalTimeSpentHours)
}

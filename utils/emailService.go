package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"
	"lms/models"
	course "lms/models/course"
)

// Generic Send Email
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	if from == "" || password == "" {
		log.Println("Email credentials not configured, skipping send")
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: LMS <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		log.Printf("Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1A237E; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1A237E; line-height: 1.6; }
			.content h2 { color: #1A237E; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>%s</h1>
			</div>
			<div class="content">
				%s
			</div>
			<div class="footer">
				You are receiving this email because you have an account with us.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendEnrollmentEmail confirms a new enrollment to the student.
func SendEnrollmentEmail(student models.User, enrolledCourse course.Course) {
	body := fmt.Sprintf(`
		<h2>Hi %s,</h2>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Your progress starts at 0%% and every lesson you finish moves you forward. Good luck!</p>`,
		student.FullName(), enrolledCourse.Title)

	if err := SendEmail([]string{student.Email}, "Enrollment Confirmed: "+enrolledCourse.Title, getEmailTemplate("Enrollment Confirmed", body)); err != nil {
		log.Printf("Error sending enrollment email to %s: %v", student.Email, err)
	}
}

// SendCourseCompletionEmail congratulates the student on finishing a course.
func SendCourseCompletionEmail(student models.User, completedCourse course.Course) {
	body := fmt.Sprintf(`
		<h2>Congratulations %s!</h2>
		<p>You have completed <strong>%s</strong>.</p>
		<p>You can now request your certificate from your dashboard.</p>`,
		student.FullName(), completedCourse.Title)

	if err := SendEmail([]string{student.Email}, "Course Completed: "+completedCourse.Title, getEmailTemplate("Course Completed", body)); err != nil {
		log.Printf("Error sending completion email to %s: %v", student.Email, err)
	}
}

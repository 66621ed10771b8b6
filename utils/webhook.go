package utils

import (
	"log"
	"time"

	"github.com/go-resty/resty/v2"

	"lms/config"
)

// NotifyCourseCompletion posts a completion event to the configured webhook.
// No-op when no webhook URL is set.
func NotifyCourseCompletion(userID, courseID, enrollmentID uint) {
	webhookURL := config.AppConfig.CompletionWebhookURL
	if webhookURL == "" {
		return
	}

	client := resty.New().SetTimeout(10 * time.Second)

	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"event":         "course.completed",
			"user_id":       userID,
			"course_id":     courseID,
			"enrollment_id": enrollmentID,
			"completed_at":  time.Now().UTC().Format(time.RFC3339),
		}).
		Post(webhookURL)
	if err != nil {
		log.Printf("Error calling completion webhook: %v", err)
		return
	}
	if resp.IsError() {
		log.Printf("Completion webhook returned %d: %s", resp.StatusCode(), resp.String())
	}
}

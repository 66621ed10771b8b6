package utils

import (
	"log"

	"github.com/robfig/cron/v3"

	"lms/database"
	"lms/services/progress"
)

// InitializeIntegrityScheduler sets up the daily progress integrity sweep
func InitializeIntegrityScheduler() {
	log.Println("[PROGRESS-INTEGRITY] Initializing integrity scheduler...")

	c := cron.New()

	// Run daily at 3 AM, off peak
	c.AddFunc("0 3 * * *", func() {
		log.Println("[PROGRESS-INTEGRITY] Running daily integrity sweep...")
		RunIntegritySweep()
	})

	c.Start()
	log.Println("[PROGRESS-INTEGRITY] Integrity scheduler started - runs daily at 3 AM")
}

// RunIntegritySweep checks every enrollment's progress rows against its
// course's lesson count. Mismatches are logged by the service; they indicate
// a provisioning bug, not a user error.
func RunIntegritySweep() {
	progressService := progress.NewService(database.Database.Db)

	issues, err := progressService.CheckIntegrity()
	if err != nil {
		log.Printf("[PROGRESS-INTEGRITY] Error running integrity sweep: %v", err)
		return
	}

	if len(issues) == 0 {
		log.Println("[PROGRESS-INTEGRITY] Sweep complete, no issues found")
		return
	}
	log.Printf("[PROGRESS-INTEGRITY] Sweep complete, %d issue(s) found", len(issues))
}

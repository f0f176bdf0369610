package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled background jobs
type CronService struct {
	cron         *cron.Cron
	roscaService *RoscaService
	notification *NotificationService
}

// NewCronService creates a new cron service
func NewCronService(roscaService *RoscaService, notification *NotificationService) *CronService {
	return &CronService{
		cron:         cron.New(),
		roscaService: roscaService,
		notification: notification,
	}
}

// Start registers the jobs and starts the scheduler.
// Late-payment reminders go out daily at 08:30.
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc("30 8 * * *", s.runLatePaymentReminders)
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Println("✅ Cron service started (late-payment reminders daily at 08:30)")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 Cron service stopped")
}

// runLatePaymentReminders notifies about participants behind on payments
func (s *CronService) runLatePaymentReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	reminders, err := s.roscaService.LateReminders(ctx)
	if err != nil {
		log.Printf("❌ Late-payment reminder job failed: %v", err)
		return
	}

	for _, reminder := range reminders {
		s.notification.NotifyLatePayments(reminder.RoscaName, reminder.LateNames)
	}

	log.Printf("✅ Late-payment reminder job done (%d roscas with late participants)", len(reminders))
}

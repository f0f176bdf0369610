package services

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// NotificationService handles LINE notifications
type NotificationService struct {
	lineNotifyToken string
	enabled         bool
	client          *http.Client
}

// NewNotificationService creates a new notification service
func NewNotificationService() *NotificationService {
	token := os.Getenv("LINE_NOTIFY_TOKEN")
	return &NotificationService{
		lineNotifyToken: token,
		enabled:         token != "",
		client:          &http.Client{Timeout: 10 * time.Second},
	}
}

// IsEnabled checks if notification is enabled
func (s *NotificationService) IsEnabled() bool {
	return s.enabled
}

// sendLineNotify sends a message via LINE Notify
func (s *NotificationService) sendLineNotify(message string) error {
	if !s.enabled {
		return nil
	}

	data := url.Values{}
	data.Set("message", message)

	req, err := http.NewRequest("POST", "https://notify-api.line.me/api/notify", bytes.NewBufferString(data.Encode()))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+s.lineNotifyToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return nil
}

// NotifyLatePayments sends a late-payment reminder for one rosca
func (s *NotificationService) NotifyLatePayments(roscaName string, lateNames []string) {
	if len(lateNames) == 0 {
		return
	}

	message := fmt.Sprintf(`
⏰ Payment reminder

💰 Rosca: %s
👥 Behind this month: %s

Please follow up on the monthly contribution`,
		roscaName,
		strings.Join(lateNames, ", "),
	)

	s.sendLineNotify(message)
}

// NotifyTurnsArranged sends a notification when a payout order is saved
func (s *NotificationService) NotifyTurnsArranged(roscaName string, count int) {
	message := fmt.Sprintf(`
🔄 Turn order updated

💰 Rosca: %s
👥 Participants: %d

The payout rotation has been rearranged`,
		roscaName,
		count,
	)

	s.sendLineNotify(message)
}

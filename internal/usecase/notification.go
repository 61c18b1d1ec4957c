package usecase

import (
	"fmt"
	"log"
	"sync"
	"time"

	"chan-engine/internal/domain"
	"chan-engine/internal/infrastructure/fcm"
	"chan-engine/internal/repository"
)

// NotificationService pushes FCM alerts for newly detected third-buy
// and third-sell events, cooling down repeat alerts for
// the same symbol+kind the way the source throttles TRIGGER alerts.
type NotificationService struct {
	fcmClient *fcm.Client
	tokenRepo *repository.TokenRepository
	eventRepo domain.PivotEventRepository

	mu       sync.RWMutex
	notified map[string]time.Time // "symbol|freq|kind" -> last notified

	cooldown time.Duration
}

func NewNotificationService(fcmClient *fcm.Client, tokenRepo *repository.TokenRepository, eventRepo domain.PivotEventRepository) *NotificationService {
	return &NotificationService{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
		eventRepo: eventRepo,
		notified:  make(map[string]time.Time),
		cooldown:  5 * time.Minute,
	}
}

// NotifyEvents persists every event and pushes an FCM alert for the
// ones not still in cooldown.
func (s *NotificationService) NotifyEvents(events []domain.PivotEvent) {
	if len(events) == 0 {
		return
	}

	now := time.Now()
	for i := range events {
		events[i].DetectedAt = now
	}

	if s.eventRepo != nil {
		if err := s.eventRepo.SaveEvents(events); err != nil {
			log.Printf("Error saving pivot events: %v", err)
		}
	}

	if s.fcmClient == nil || !s.fcmClient.IsEnabled() {
		return
	}
	tokens := s.tokenRepo.GetAllTokens()
	if len(tokens) == 0 {
		return
	}

	for _, e := range events {
		key := fmt.Sprintf("%s|%s|%s", e.Symbol, e.Freq, e.Kind)

		s.mu.RLock()
		last, exists := s.notified[key]
		s.mu.RUnlock()
		if exists && now.Sub(last) < s.cooldown {
			continue
		}

		title, body := renderAlert(e)
		data := map[string]string{
			"symbol": e.Symbol,
			"freq":   e.Freq,
			"kind":   e.Kind,
			"value":  fmt.Sprintf("%.8f", e.Value),
		}

		if err := s.fcmClient.SendMulticast(tokens, title, body, data); err != nil {
			log.Printf("Error sending notification for %s: %v", e.Symbol, err)
			continue
		}
		log.Printf("Sent notification for %s (%s %s) to %d devices", e.Symbol, e.Freq, e.Kind, len(tokens))

		s.mu.Lock()
		s.notified[key] = now
		s.mu.Unlock()
	}

	s.mu.Lock()
	for key, ts := range s.notified {
		if now.Sub(ts) > s.cooldown*2 {
			delete(s.notified, key)
		}
	}
	s.mu.Unlock()
}

func renderAlert(e domain.PivotEvent) (title, body string) {
	switch e.Kind {
	case "bi_third_buy", "xd_third_buy":
		return fmt.Sprintf("\U0001F4C8 %s third-buy on %s", e.Symbol, e.Freq),
			fmt.Sprintf("Pivot break confirmed at %.8f", e.Value)
	case "bi_third_sell", "xd_third_sell":
		return fmt.Sprintf("\U0001F4C9 %s third-sell on %s", e.Symbol, e.Freq),
			fmt.Sprintf("Pivot break confirmed at %.8f", e.Value)
	default:
		return fmt.Sprintf("%s pivot event on %s", e.Symbol, e.Freq),
			fmt.Sprintf("%s at %.8f", e.Kind, e.Value)
	}
}

package amqp

import (
	"encoding/json"
	"time"

	"github.com/catalintache/hackathon-2025/internal/services"
)

// BudgetAlertMessage carries one triggered budget alert to the alert worker,
// which records it out of process.
type BudgetAlertMessage struct {
	UserID    int64     `json:"user_id"`
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Category  string    `json:"category"`
	Spent     float64   `json:"spent"`
	Budget    float64   `json:"budget"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetAlertMessage wraps an engine alert into a queue message
func NewBudgetAlertMessage(alert services.BudgetAlert) *BudgetAlertMessage {
	return &BudgetAlertMessage{
		UserID:    alert.UserID,
		Year:      alert.Year,
		Month:     alert.Month,
		Category:  alert.Category,
		Spent:     alert.Spent,
		Budget:    alert.Budget,
		Message:   alert.Message,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *BudgetAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// BudgetAlertMessageFromJSON creates a message from JSON bytes
func BudgetAlertMessageFromJSON(data []byte) (*BudgetAlertMessage, error) {
	var msg BudgetAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

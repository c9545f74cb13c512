package amqp

import (
	"encoding/json"
	"time"
)

type jsonMessage interface {
	ToJSON() ([]byte, error)
}

// AccountChangedMessage marks an account's forecast as stale. It only
// carries the account id; the worker reloads the full snapshot from the
// database.
type AccountChangedMessage struct {
	AccountID int64     `json:"accountId"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// Reasons an account forecast goes stale.
const (
	ReasonTransaction = "transaction"
	ReasonObligation  = "obligation"
	ReasonAccount     = "account"
)

func NewAccountChangedMessage(accountID int64, reason string) *AccountChangedMessage {
	return &AccountChangedMessage{
		AccountID: accountID,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *AccountChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func AccountChangedMessageFromJSON(data []byte) (*AccountChangedMessage, error) {
	var msg AccountChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// LowBalanceAlertMessage reports a projected negative balance in the
// first days of the next month.
type LowBalanceAlertMessage struct {
	AlertID     string    `json:"alertId"`
	AccountID   int64     `json:"accountId"`
	LowestCents int64     `json:"lowestCents"`
	AsOf        string    `json:"asOf"` // ISO calendar date of the computation
	Timestamp   time.Time `json:"timestamp"`
}

func (m *LowBalanceAlertMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func LowBalanceAlertMessageFromJSON(data []byte) (*LowBalanceAlertMessage, error) {
	var msg LowBalanceAlertMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package domain

import "time"

// LedgerEntryType kind of monetary event
type LedgerEntryType string

const (
	// LedgerCharge сумма к оплате при создании сессии
	LedgerCharge LedgerEntryType = "charge"
	// LedgerCapture платеж подтвержден платежным провайдером
	LedgerCapture LedgerEntryType = "capture"
	// LedgerRefund возврат на баланс клиента при отмене
	LedgerRefund LedgerEntryType = "refund"
	// LedgerReversal отмена захваченного платежа
	LedgerReversal LedgerEntryType = "reversal"
)

// LedgerEntry immutable record of a monetary event tied to a session.
// Commission fields repeat the session metadata snapshot.
type LedgerEntry struct {
	ID                 int64
	SessionID          int64
	ClientID           int64
	ExpertID           int64
	Type               LedgerEntryType
	Amount             float64
	Currency           string
	ExpertCommission   float64
	PlatformCommission float64
	CreditsUsed        float64
	CreatedAt          time.Time
}

// NewLedgerEntry builds an entry carrying the session's commission snapshot
func NewLedgerEntry(session *Session, entryType LedgerEntryType, amount float64) *LedgerEntry {
	return &LedgerEntry{
		SessionID:          session.ID,
		ClientID:           session.ClientID,
		ExpertID:           session.ExpertID,
		Type:               entryType,
		Amount:             amount,
		Currency:           session.Currency,
		ExpertCommission:   session.Metadata.ExpertCommission,
		PlatformCommission: session.Metadata.PlatformCommission,
		CreditsUsed:        session.Metadata.UserCreditsUsed,
	}
}

// ClientAccount credit balance of a client
type ClientAccount struct {
	UserID        int64
	CreditBalance float64
	UpdatedAt     time.Time
}

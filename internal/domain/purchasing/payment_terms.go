package purchasing

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTermsKind tags the payment metadata variant captured at registration
type PaymentTermsKind string

const (
	// PaymentTermsNone means no payment data accompanied the invoice
	PaymentTermsNone PaymentTermsKind = "NONE"
	// PaymentTermsSchedule means the supplier declared an explicit
	// installment (duplicate) schedule
	PaymentTermsSchedule PaymentTermsKind = "EXPLICIT_SCHEDULE"
	// PaymentTermsParcels means only a parcel count and first due date were
	// declared; amounts are split equally from the purchase total
	PaymentTermsParcels PaymentTermsKind = "PARCEL_PLAN"
)

// Installment is one entry of an explicit payment schedule
type Installment struct {
	Number  int             `json:"number"`
	DueDate time.Time       `json:"due_date"`
	Amount  decimal.Decimal `json:"amount"`
}

// PaymentTerms is the payment metadata captured when a purchase is registered
// and acted upon only when the purchase is received. It is a tagged variant:
// exactly one of the three kinds applies.
type PaymentTerms struct {
	Kind         PaymentTermsKind `json:"kind"`
	Installments []Installment    `json:"installments,omitempty"`
	ParcelCount  int              `json:"parcel_count,omitempty"`
	FirstDueDate *time.Time       `json:"first_due_date,omitempty"`
	Condition    string           `json:"condition,omitempty"`
}

// NoPaymentTerms returns the empty variant
func NoPaymentTerms() PaymentTerms {
	return PaymentTerms{Kind: PaymentTermsNone}
}

// NewScheduleTerms builds terms from an explicit installment schedule
func NewScheduleTerms(installments []Installment, condition string) PaymentTerms {
	if len(installments) == 0 {
		return NoPaymentTerms()
	}
	return PaymentTerms{
		Kind:         PaymentTermsSchedule,
		Installments: installments,
		Condition:    condition,
	}
}

// NewParcelTerms builds terms from a parcel count and first due date
func NewParcelTerms(parcelCount int, firstDueDate time.Time, condition string) PaymentTerms {
	if parcelCount <= 0 {
		return NoPaymentTerms()
	}
	return PaymentTerms{
		Kind:         PaymentTermsParcels,
		ParcelCount:  parcelCount,
		FirstDueDate: &firstDueDate,
		Condition:    condition,
	}
}

// IsEmpty reports whether no payment data is available
func (t PaymentTerms) IsEmpty() bool {
	return t.Kind == "" || t.Kind == PaymentTermsNone
}

// Value implements driver.Valuer, serializing the variant to a JSON column
func (t PaymentTerms) Value() (driver.Value, error) {
	if t.Kind == "" {
		t.Kind = PaymentTermsNone
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner
func (t *PaymentTerms) Scan(value interface{}) error {
	if value == nil {
		*t = NoPaymentTerms()
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported payment terms column type %T", value)
	}
	if len(data) == 0 {
		*t = NoPaymentTerms()
		return nil
	}
	return json.Unmarshal(data, t)
}

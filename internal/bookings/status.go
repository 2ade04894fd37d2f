package bookings

type PaymentStatus string

const (
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentFailed    PaymentStatus = "FAILED"
)

// IsValid checks if the payment status is one we know
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentCompleted, PaymentPending, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) String() string {
	return string(s)
}

// IsConfirmed reports whether the payment collaborator captured the funds
func (s PaymentStatus) IsConfirmed() bool {
	return s == PaymentCompleted
}

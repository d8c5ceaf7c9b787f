package billing

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusPastDue  Status = "PAST_DUE"
	StatusCanceled Status = "CANCELED"
	StatusUnpaid   Status = "UNPAID"
)

// providerStatuses maps Stripe's subscription vocabulary onto the local enum.
// Anything absent from the table is INACTIVE.
var providerStatuses = map[string]Status{
	"active":   StatusActive,
	"past_due": StatusPastDue,
	"canceled": StatusCanceled,
	"unpaid":   StatusUnpaid,
}

func StatusFromProvider(s string) Status {
	if st, ok := providerStatuses[s]; ok {
		return st
	}
	return StatusInactive
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusPastDue, StatusCanceled, StatusUnpaid:
		return true
	}
	return false
}

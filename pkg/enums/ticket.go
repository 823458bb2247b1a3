package enums

import "fmt"

// TicketType names what a customer complained about.
type TicketType string

const (
	TicketTypeSize   TicketType = "size"
	TicketTypeDefect TicketType = "defect"
	TicketTypeColor  TicketType = "color"
	TicketTypeDesign TicketType = "design"
)

var validTicketTypes = []TicketType{
	TicketTypeSize,
	TicketTypeDefect,
	TicketTypeColor,
	TicketTypeDesign,
}

// String implements fmt.Stringer.
func (t TicketType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TicketType.
func (t TicketType) IsValid() bool {
	for _, candidate := range validTicketTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTicketType converts raw input into a TicketType.
func ParseTicketType(value string) (TicketType, error) {
	for _, candidate := range validTicketTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket type %q", value)
}

// TicketRemedy is the resolution the customer asked for.
type TicketRemedy string

const (
	TicketRemedyReplace TicketRemedy = "replace"
	TicketRemedyRepair  TicketRemedy = "repair"
	TicketRemedyRefund  TicketRemedy = "refund"
)

var validTicketRemedies = []TicketRemedy{
	TicketRemedyReplace,
	TicketRemedyRepair,
	TicketRemedyRefund,
}

// String implements fmt.Stringer.
func (r TicketRemedy) String() string {
	return string(r)
}

// IsValid reports whether the value is a known TicketRemedy.
func (r TicketRemedy) IsValid() bool {
	for _, candidate := range validTicketRemedies {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseTicketRemedy converts raw input into a TicketRemedy.
func ParseTicketRemedy(value string) (TicketRemedy, error) {
	for _, candidate := range validTicketRemedies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket remedy %q", value)
}

// TicketStatus tracks the complaint workflow.
type TicketStatus string

const (
	TicketStatusWaitingQC       TicketStatus = "WAITING_QC"
	TicketStatusQCAccepted      TicketStatus = "QC_ACCEPTED"
	TicketStatusQCRejected      TicketStatus = "QC_REJECTED"
	TicketStatusWaitingApproval TicketStatus = "WAITING_APPROVAL"
	TicketStatusApproved        TicketStatus = "APPROVED"
	TicketStatusInProgress      TicketStatus = "IN_PROGRESS"
	TicketStatusClosed          TicketStatus = "CLOSED"
)

var validTicketStatuses = []TicketStatus{
	TicketStatusWaitingQC,
	TicketStatusQCAccepted,
	TicketStatusQCRejected,
	TicketStatusWaitingApproval,
	TicketStatusApproved,
	TicketStatusInProgress,
	TicketStatusClosed,
}

// ticketTransitions lists the allowed next statuses per current status.
var ticketTransitions = map[TicketStatus][]TicketStatus{
	TicketStatusWaitingQC:       {TicketStatusQCAccepted, TicketStatusQCRejected},
	TicketStatusQCAccepted:      {TicketStatusWaitingApproval},
	TicketStatusQCRejected:      {TicketStatusClosed},
	TicketStatusWaitingApproval: {TicketStatusApproved, TicketStatusClosed},
	TicketStatusApproved:        {TicketStatusInProgress},
	TicketStatusInProgress:      {TicketStatusClosed},
	TicketStatusClosed:          {},
}

// String implements fmt.Stringer.
func (s TicketStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TicketStatus.
func (s TicketStatus) IsValid() bool {
	for _, candidate := range validTicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is an allowed transition from s.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	for _, candidate := range ticketTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseTicketStatus converts raw input into a TicketStatus.
func ParseTicketStatus(value string) (TicketStatus, error) {
	for _, candidate := range validTicketStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket status %q", value)
}

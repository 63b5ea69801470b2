package core

// Display labels are exhaustive switches over the closed enums rather than
// string-keyed lookup maps, so a new variant is a compile-visible change.
// Unknown values from the backend get an explicit default label instead of a
// silent fallback entry.

const labelUnknown = "Unknown"

// Label returns the human-readable form of a debt status.
func (s DebtStatus) Label() string {
	switch s {
	case DebtActive:
		return "Active"
	case DebtPaidOff:
		return "Paid Off"
	case DebtOverdue:
		return "Overdue"
	case DebtPartiallyPaid:
		return "Partially Paid"
	default:
		return labelUnknown
	}
}

// Label returns the human-readable form of a split type.
func (s SplitType) Label() string {
	switch s {
	case SplitEqual:
		return "Split Equally"
	case SplitPercentage:
		return "By Percentage"
	case SplitExactAmount:
		return "Exact Amounts"
	case SplitShares:
		return "By Shares"
	default:
		return labelUnknown
	}
}

// Label returns the human-readable form of a receipt status.
func (s ReceiptStatus) Label() string {
	switch s {
	case ReceiptPending:
		return "Pending"
	case ReceiptProcessing:
		return "Processing"
	case ReceiptCompleted:
		return "Completed"
	case ReceiptFailed:
		return "Failed"
	case ReceiptManualReview:
		return "Needs Review"
	default:
		return labelUnknown
	}
}

// Label returns the human-readable form of a participant status.
func (s ParticipantStatus) Label() string {
	switch s {
	case ParticipantPending:
		return "Pending"
	case ParticipantPaid:
		return "Paid"
	case ParticipantDisputed:
		return "Disputed"
	case ParticipantWaived:
		return "Waived"
	default:
		return labelUnknown
	}
}

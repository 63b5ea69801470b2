package analytics

import (
	"strings"

	"takatrack/internal/core"
)

// LedgerTab selects which side of the shared-expense ledger to show.
type LedgerTab string

const (
	TabAll       LedgerTab = "all"
	TabYouOwe    LedgerTab = "you-owe"
	TabOwedToYou LedgerTab = "owed-to-you"
)

// LedgerFilter narrows the shared-expense list. Zero values mean "no
// filtering" for that dimension. Filters combine with AND semantics; the tab
// filter applies first, group and search after.
type LedgerFilter struct {
	Tab   LedgerTab
	Group string // exact group name, or "" / "all" for every group
	Query string // case-insensitive substring on title or group name
}

// FilterLedger returns the shared expenses visible to userID under the given
// filter. "You owe" keeps expenses someone else paid that are unsettled and
// where the user's own participant entry is still unpaid; "owed to you" keeps
// the user's own unsettled fronted expenses regardless of per-participant
// flags.
func FilterLedger(expenses []core.SharedExpense, userID int64, f LedgerFilter) []core.SharedExpense {
	out := make([]core.SharedExpense, 0, len(expenses))
	for _, exp := range expenses {
		paidByMe := exp.PaidBy.ID == userID
		mine := findParticipant(exp.Participants, userID)

		switch f.Tab {
		case TabYouOwe:
			if paidByMe || exp.IsSettled {
				continue
			}
			if mine == nil || mine.IsPaid {
				continue
			}
		case TabOwedToYou:
			if !paidByMe || exp.IsSettled {
				continue
			}
		}

		if f.Group != "" && f.Group != "all" && exp.GroupName != f.Group {
			continue
		}

		if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
			title := strings.ToLower(exp.Title)
			group := strings.ToLower(exp.GroupName)
			if !strings.Contains(title, q) && !strings.Contains(group, q) {
				continue
			}
		}

		out = append(out, exp)
	}
	return out
}

// PaymentProgress is the percentage of participants who have paid their
// share; 0 when the expense has no participants.
func PaymentProgress(exp core.SharedExpense) float64 {
	if len(exp.Participants) == 0 {
		return 0
	}
	paid := 0
	for _, p := range exp.Participants {
		if p.IsPaid {
			paid++
		}
	}
	return float64(paid) / float64(len(exp.Participants)) * 100
}

// LedgerSummary totals both sides of the ledger for userID. An expense
// contributes to at most one side: either the user's unpaid share (you owe)
// or the unpaid shares of others on expenses the user fronted (owed to you).
type LedgerSummary struct {
	YouOwe       float64 `json:"youOwe"`
	OwedToYou    float64 `json:"owedToYou"`
	YouOweCount  int     `json:"youOweCount"`
	OwedToCount  int     `json:"owedToCount"`
	SettledCount int     `json:"settledCount"`
}

// SummarizeLedger computes owe/owed totals from the full expense list.
func SummarizeLedger(expenses []core.SharedExpense, userID int64) LedgerSummary {
	var s LedgerSummary
	for _, exp := range expenses {
		if exp.IsSettled {
			s.SettledCount++
			continue
		}
		if exp.PaidBy.ID == userID {
			for _, p := range exp.Participants {
				if !isParticipantUser(p, userID) && !p.IsPaid {
					s.OwedToYou += p.ShareAmount
				}
			}
			s.OwedToCount++
			continue
		}
		if mine := findParticipant(exp.Participants, userID); mine != nil && !mine.IsPaid {
			s.YouOwe += mine.ShareAmount
			s.YouOweCount++
		}
	}
	return s
}

// Groups returns the distinct non-empty group names, in first-seen order.
func Groups(expenses []core.SharedExpense) []string {
	seen := make(map[string]struct{})
	groups := make([]string, 0)
	for _, exp := range expenses {
		if exp.GroupName == "" {
			continue
		}
		if _, ok := seen[exp.GroupName]; ok {
			continue
		}
		seen[exp.GroupName] = struct{}{}
		groups = append(groups, exp.GroupName)
	}
	return groups
}

// isParticipantUser reports whether a participant row belongs to userID.
// Rows carry an optional account reference; when it is absent the row ID is
// used, which the backend keeps equal to the account ID for registered
// members.
func isParticipantUser(p core.Participant, userID int64) bool {
	if p.UserID != nil {
		return *p.UserID == userID
	}
	return p.ID == userID
}

func findParticipant(participants []core.Participant, userID int64) *core.Participant {
	for i := range participants {
		if isParticipantUser(participants[i], userID) {
			return &participants[i]
		}
	}
	return nil
}

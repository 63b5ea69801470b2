package core

import (
	"errors"
	"strings"
	"time"
)

const (
	DebtBorrowed DebtType = "BORROWED"
	DebtLent     DebtType = "LENT"
)

const (
	DebtActive        DebtStatus = "ACTIVE"
	DebtPaidOff       DebtStatus = "PAID_OFF"
	DebtOverdue       DebtStatus = "OVERDUE"
	DebtPartiallyPaid DebtStatus = "PARTIALLY_PAID"
)

const (
	SplitEqual       SplitType = "EQUAL"
	SplitPercentage  SplitType = "PERCENTAGE"
	SplitExactAmount SplitType = "EXACT_AMOUNT"
	SplitShares      SplitType = "SHARES"
)

const (
	ParticipantPending  ParticipantStatus = "PENDING"
	ParticipantPaid     ParticipantStatus = "PAID"
	ParticipantDisputed ParticipantStatus = "DISPUTED"
	ParticipantWaived   ParticipantStatus = "WAIVED"
)

const (
	ReceiptPending      ReceiptStatus = "PENDING"
	ReceiptProcessing   ReceiptStatus = "PROCESSING"
	ReceiptCompleted    ReceiptStatus = "COMPLETED"
	ReceiptFailed       ReceiptStatus = "FAILED"
	ReceiptManualReview ReceiptStatus = "MANUAL_REVIEW_NEEDED"
)

const (
	PriorityHigh   GoalPriority = "high"
	PriorityMedium GoalPriority = "medium"
	PriorityLow    GoalPriority = "low"
)

type (
	DebtType          string
	DebtStatus        string
	SplitType         string
	ParticipantStatus string
	ReceiptStatus     string
	GoalPriority      string

	// Date wraps time.Time so backend date strings ("2006-01-02" or RFC 3339)
	// decode transparently from JSON.
	Date struct {
		time.Time
	}

	// Expense is a single spending record as served by the backend.
	Expense struct {
		ID          int64     `json:"id"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
		Date        Date      `json:"date"`
		Category    *Category `json:"category,omitempty"`
	}

	Category struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}

	// Budget carries the server-computed derived fields alongside the limit.
	Budget struct {
		ID             int64   `json:"id"`
		CategoryName   string  `json:"categoryName"`
		Amount         float64 `json:"amount"`
		Spent          float64 `json:"spent"`
		Remaining      float64 `json:"remaining"`
		PercentageUsed float64 `json:"percentageUsed"`
		IsOverBudget   bool    `json:"isOverBudget"`
		Month          int     `json:"month"`
		Year           int     `json:"year"`
	}

	// BudgetSummary is the server aggregate from /budgets/analytics.
	BudgetSummary struct {
		TotalBudget           float64 `json:"totalBudget"`
		TotalSpent            float64 `json:"totalSpent"`
		OverBudgetCount       int     `json:"overBudgetCount"`
		NearLimitCount        int     `json:"nearLimitCount"`
		OverallPercentageUsed float64 `json:"overallPercentageUsed"`
	}

	Income struct {
		ID          int64   `json:"id"`
		Source      string  `json:"source"`
		Amount      float64 `json:"amount"`
		Date        Date    `json:"date"`
		Description string  `json:"description,omitempty"`
		WalletID    *int64  `json:"walletId,omitempty"`
	}

	Debt struct {
		ID              int64      `json:"id"`
		Type            DebtType   `json:"type"`
		PersonName      string     `json:"personName"`
		PrincipalAmount float64    `json:"principalAmount"`
		RemainingAmount float64    `json:"remainingAmount"`
		InterestRate    float64    `json:"interestRate"`
		Status          DebtStatus `json:"status"`
		Priority        string     `json:"priority"`
		DueDate         Date       `json:"dueDate"`
	}

	// DebtStats is the server aggregate from /debts/stats.
	DebtStats struct {
		TotalBorrowed float64 `json:"totalBorrowed"`
		TotalLent     float64 `json:"totalLent"`
		NetDebt       float64 `json:"netDebt"`
		ActiveCount   int     `json:"activeCount"`
	}

	// SavingsGoal is the one locally-owned entity; everything else is a
	// backend DTO. CurrentAmount is maintained incrementally as contributions
	// are appended, never recomputed from the list.
	SavingsGoal struct {
		ID            int64          `json:"id"`
		Name          string         `json:"name"`
		TargetAmount  float64        `json:"targetAmount"`
		CurrentAmount float64        `json:"currentAmount"`
		Deadline      Date           `json:"deadline"`
		Category      string         `json:"category"`
		Priority      GoalPriority   `json:"priority"`
		Contributions []Contribution `json:"contributions"`
		CreatedAt     Date           `json:"createdAt"`
	}

	Contribution struct {
		Date   Date    `json:"date"`
		Amount float64 `json:"amount"`
	}

	User struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	SharedExpense struct {
		ID           int64         `json:"id"`
		Title        string        `json:"title"`
		TotalAmount  float64       `json:"totalAmount"`
		PaidBy       User          `json:"paidBy"`
		SplitType    SplitType     `json:"splitType"`
		IsSettled    bool          `json:"isSettled"`
		GroupName    string        `json:"groupName,omitempty"`
		Participants []Participant `json:"participants"`
		CreatedAt    Date          `json:"createdAt"`
	}

	Participant struct {
		ID          int64             `json:"id"`
		UserID      *int64            `json:"userId,omitempty"`
		Name        string            `json:"name"`
		ShareAmount float64           `json:"shareAmount"`
		IsPaid      bool              `json:"isPaid"`
		Status      ParticipantStatus `json:"status"`
	}

	RecurringExpense struct {
		ID          int64   `json:"id"`
		Description string  `json:"description"`
		Amount      float64 `json:"amount"`
		Frequency   string  `json:"frequency"`
		NextDueDate Date    `json:"nextDueDate"`
		IsActive    bool    `json:"isActive"`
	}

	// Prediction is display-only; all fields are server-computed.
	Prediction struct {
		ID                 int64    `json:"id"`
		PredictionType     string   `json:"predictionType"`
		PredictedAmount    float64  `json:"predictedAmount"`
		ActualAmount       *float64 `json:"actualAmount,omitempty"`
		Confidence         float64  `json:"confidence"`
		AccuracyPercentage *float64 `json:"accuracyPercentage,omitempty"`
	}

	// Receipt state transitions are owned entirely by the backend OCR
	// pipeline; this side only reads them.
	Receipt struct {
		ID              int64         `json:"id"`
		FileName        string        `json:"fileName"`
		Status          ReceiptStatus `json:"status"`
		ExtractedAmount *float64      `json:"extractedAmount,omitempty"`
		Confidence      *float64      `json:"confidence,omitempty"`
	}

	Nudge struct {
		ID        int64  `json:"id"`
		Type      string `json:"type"`
		Title     string `json:"title"`
		Message   string `json:"message"`
		Priority  string `json:"priority"`
		IsRead    bool   `json:"isRead"`
		ActionURL string `json:"actionUrl,omitempty"`
	}

	// TaxRecord is one exportable row of the yearly tax summary.
	TaxRecord struct {
		Year        int     `json:"year"`
		Category    string  `json:"category"`
		TotalAmount float64 `json:"totalAmount"`
		Deductible  bool    `json:"deductible"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrEmptyName       = errors.New("empty name")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidDeadline = errors.New("invalid deadline")
)

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today truncates now to a calendar date in UTC.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// UnmarshalJSON accepts "2006-01-02" date strings as well as RFC 3339
// timestamps, which is what the backend serializes depending on the field.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON writes the plain date form; zero dates serialize as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// SameMonth reports whether the date falls in the given calendar month.
func (d Date) SameMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Time.Month() == month
}

func (p GoalPriority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display: high < medium < low.
func (p GoalPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Validate checks a goal before it is written to the local store.
func (g SavingsGoal) Validate() error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if len(g.Name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	if g.TargetAmount <= 0 {
		return ErrInvalidAmount
	}
	if g.CurrentAmount < 0 {
		return ErrInvalidAmount
	}
	if g.Deadline.IsZero() {
		return ErrInvalidDeadline
	}
	if !g.Priority.IsValid() {
		return ErrInvalidPriority
	}
	return nil
}

// Validate checks a contribution before it is appended to a goal.
func (c Contribution) Validate() error {
	if c.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

package cashdesk

// ShiftStatus represents the lifecycle state of a cashier shift
type ShiftStatus string

const (
	ShiftStatusOpen        ShiftStatus = "open"         // Cashier is handling cash
	ShiftStatusUnderReview ShiftStatus = "under_review" // Closed with a discrepancy, waiting for a manager
	ShiftStatusClosed      ShiftStatus = "closed"       // Reconciled and final
)

// IsValid checks if the status is a valid ShiftStatus
func (s ShiftStatus) IsValid() bool {
	switch s {
	case ShiftStatusOpen, ShiftStatusUnderReview, ShiftStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ShiftStatus
func (s ShiftStatus) String() string {
	return string(s)
}

// Label returns a human-readable name for the status
func (s ShiftStatus) Label() string {
	switch s {
	case ShiftStatusOpen:
		return "Open"
	case ShiftStatusUnderReview:
		return "Under Review"
	case ShiftStatusClosed:
		return "Closed"
	default:
		return string(s)
	}
}

// Color returns the badge color used by admin screens
func (s ShiftStatus) Color() string {
	switch s {
	case ShiftStatusOpen:
		return "success"
	case ShiftStatusUnderReview:
		return "warning"
	default:
		return "gray"
	}
}

// CanRecordTransactions returns true if cash movements may be added
func (s ShiftStatus) CanRecordTransactions() bool {
	return s == ShiftStatusOpen
}

// CanClose returns true if the shift may be counted and closed
func (s ShiftStatus) CanClose() bool {
	return s == ShiftStatusOpen
}

// CanReview returns true if a manager may approve, reject or adjust
func (s ShiftStatus) CanReview() bool {
	return s == ShiftStatusUnderReview
}

// TransactionType represents the direction of a cash movement
type TransactionType string

const (
	TransactionTypeIn    TransactionType = "in"     // Cash received
	TransactionTypeOut   TransactionType = "out"    // Cash paid out
	TransactionTypeInOut TransactionType = "in_out" // Currency exchange, recorded as two legs
)

// IsValid checks if the type is a valid TransactionType
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeIn, TransactionTypeOut, TransactionTypeInOut:
		return true
	}
	return false
}

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// Label returns a human-readable name for the type
func (t TransactionType) Label() string {
	switch t {
	case TransactionTypeIn:
		return "Cash In"
	case TransactionTypeOut:
		return "Cash Out"
	case TransactionTypeInOut:
		return "Exchange"
	default:
		return string(t)
	}
}

// Sign returns +1 for rows that add cash to the drawer and -1 for rows that
// remove it. The stored in_out row is the incoming leg of an exchange.
func (t TransactionType) Sign() int64 {
	if t == TransactionTypeOut {
		return -1
	}
	return 1
}

// TransactionCategory classifies a cash movement for reporting
type TransactionCategory string

const (
	CategorySale       TransactionCategory = "sale"
	CategoryExpense    TransactionCategory = "expense"
	CategoryChange     TransactionCategory = "change"
	CategoryDeposit    TransactionCategory = "deposit"
	CategoryWithdrawal TransactionCategory = "withdrawal"
	CategoryExchange   TransactionCategory = "exchange"
	CategoryRefund     TransactionCategory = "refund"
	CategoryOther      TransactionCategory = "other"
)

// AllCategories returns every category in display order
func AllCategories() []TransactionCategory {
	return []TransactionCategory{
		CategorySale, CategoryExpense, CategoryChange, CategoryDeposit,
		CategoryWithdrawal, CategoryExchange, CategoryRefund, CategoryOther,
	}
}

// IsValid checks if the category is a valid TransactionCategory
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategorySale, CategoryExpense, CategoryChange, CategoryDeposit,
		CategoryWithdrawal, CategoryExchange, CategoryRefund, CategoryOther:
		return true
	}
	return false
}

// String returns the string representation of TransactionCategory
func (c TransactionCategory) String() string {
	return string(c)
}

// Label returns a human-readable name for the category
func (c TransactionCategory) Label() string {
	switch c {
	case CategorySale:
		return "Sale"
	case CategoryExpense:
		return "Expense"
	case CategoryChange:
		return "Change"
	case CategoryDeposit:
		return "Deposit"
	case CategoryWithdrawal:
		return "Withdrawal"
	case CategoryExchange:
		return "Currency Exchange"
	case CategoryRefund:
		return "Refund"
	case CategoryOther:
		return "Other"
	default:
		return string(c)
	}
}

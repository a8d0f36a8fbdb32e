package model

// ActionType mirrors Intent and adds the error action.
type ActionType string

// Action type constants.
const (
	ActionTransfer ActionType = "transfer"
	ActionSearch   ActionType = "search"
	ActionMenu     ActionType = "menu"
	ActionUnknown  ActionType = "unknown"
	ActionError    ActionType = "error"
)

// MaxSuggestions bounds ResponseEnvelope.Suggestions.
const MaxSuggestions = 5

// ResponseEnvelope is the uniform output of the action dispatcher.
type ResponseEnvelope struct {
	ScreenData     any        `json:"screen_data"`
	ActionType     ActionType `json:"action_type"`
	RedirectTarget string     `json:"redirect_target"`
	Message        string     `json:"message"`
	Suggestions    []string   `json:"suggestions"`
	Confidence     float64    `json:"confidence"`
	Success        bool       `json:"success"`
}

// LastTransfer describes the most recent transfer to a contact.
type LastTransfer struct {
	Date   string `json:"date"`
	Memo   string `json:"memo,omitempty"`
	Amount int64  `json:"amount"`
}

// TransferScreen is the screen data for a transfer action.
type TransferScreen struct {
	Amount           *int64       `json:"amount,omitempty"`
	RecipientName    string       `json:"recipient_name"`
	RecipientAccount string       `json:"recipient_account"`
	RecipientBank    string       `json:"recipient_bank"`
	LastTransfer     LastTransfer `json:"last_transfer"`
	LimitExceeded    bool         `json:"limit_exceeded,omitempty"`
}

// SearchFilter echoes the criteria a search ran with.
type SearchFilter struct {
	Merchant        string          `json:"merchant,omitempty"`
	Person          string          `json:"person,omitempty"`
	StartDate       string          `json:"start_date,omitempty"`
	EndDate         string          `json:"end_date,omitempty"`
	PeriodType      PeriodType      `json:"period_type,omitempty"`
	Description     string          `json:"description,omitempty"`
	TransactionType TransactionType `json:"transaction_type,omitempty"`
	Limit           int             `json:"limit,omitempty"`
}

// SearchSummary totals the returned records.
type SearchSummary struct {
	TotalDeposit    int64 `json:"total_deposit"`
	TotalWithdrawal int64 `json:"total_withdrawal"`
	NetAmount       int64 `json:"net_amount"`
}

// SearchScreen is the screen data for a search action.
type SearchScreen struct {
	Transactions []Transaction `json:"transactions"`
	Filter       SearchFilter  `json:"filter"`
	Summary      SearchSummary `json:"summary"`
	Count        int           `json:"count"`
}

// MenuScreen is the screen data for a menu action.
type MenuScreen struct {
	MenuType MenuType `json:"menu_type"`
	Route    string   `json:"route"`
}

// HelpScreen is the screen data for unknown and incomplete requests.
type HelpScreen struct {
	Contacts []Contact `json:"recent_contacts"`
	Examples []string  `json:"examples"`
	Person   string    `json:"person,omitempty"`
}

// ErrorScreen is the screen data for the error action.
type ErrorScreen struct {
	ErrorDetails string `json:"error_details"`
}

package model

// MenuType identifies a navigable screen. The set is closed.
type MenuType string

// Menu type constants.
const (
	MenuExchange           MenuType = "exchange"
	MenuExchangeCalculator MenuType = "exchangeCalculator"
	MenuExchangeAlerts     MenuType = "exchangeAlerts"
	MenuCardApplication    MenuType = "cardApplication"
	MenuLoan               MenuType = "loan"
	MenuLoanDocuments      MenuType = "loanDocuments"
	MenuLoanCalculator     MenuType = "loanCalculator"
	MenuHistory            MenuType = "history"
	MenuTransfer           MenuType = "transfer"
)

// Route is the navigation target and canned copy for a menu type.
type Route struct {
	Path        string
	Message     string
	Suggestions [3]string
}

var routes = map[MenuType]Route{
	MenuExchange: {
		Path:        "/exchange",
		Message:     "환전 화면으로 이동할게요.",
		Suggestions: [3]string{"달러 환전", "엔화 환전", "환율 알림 설정"},
	},
	MenuExchangeCalculator: {
		Path:        "/exchangeCalculator",
		Message:     "환율계산기를 열어드릴게요.",
		Suggestions: [3]string{"달러 환율 보기", "환전하기", "환율 알림 설정"},
	},
	MenuExchangeAlerts: {
		Path:        "/exchangeAlerts",
		Message:     "환율 알림 설정 화면으로 이동할게요.",
		Suggestions: [3]string{"목표 환율 등록", "환율계산기", "환전하기"},
	},
	MenuCardApplication: {
		Path:        "/cardApplication",
		Message:     "카드 신청 화면으로 이동할게요.",
		Suggestions: [3]string{"체크카드 신청", "신용카드 신청", "카드 혜택 비교"},
	},
	MenuLoan: {
		Path:        "/loan",
		Message:     "대출 관리 화면으로 이동할게요.",
		Suggestions: [3]string{"대출 조회", "대출이자 계산", "대출 서류 조회"},
	},
	MenuLoanDocuments: {
		Path:        "/loanDocuments",
		Message:     "대출 서류 조회 화면으로 이동할게요.",
		Suggestions: [3]string{"대출 계약서 보기", "대출 관리", "대출이자 계산"},
	},
	MenuLoanCalculator: {
		Path:        "/loanCalculator",
		Message:     "대출이자 계산기를 열어드릴게요.",
		Suggestions: [3]string{"대출 조회", "대출 서류 조회", "대출 관리"},
	},
	MenuHistory: {
		Path:        "/history",
		Message:     "입출금내역 화면으로 이동할게요.",
		Suggestions: [3]string{"이번달 거래내역", "입금 내역만 보기", "출금 내역만 보기"},
	},
	MenuTransfer: {
		Path:        "/transfer",
		Message:     "송금 화면으로 이동할게요.",
		Suggestions: [3]string{"최근 보낸 사람", "자주 쓰는 계좌", "이체 한도 조회"},
	},
}

// LookupRoute returns the route for a menu type.
func LookupRoute(m MenuType) (Route, bool) {
	r, ok := routes[m]
	return r, ok
}

// Valid reports whether the menu type belongs to the closed set.
func (m MenuType) Valid() bool {
	_, ok := routes[m]
	return ok
}

// MenuTypes returns every menu type in a stable order.
func MenuTypes() []MenuType {
	return []MenuType{
		MenuExchange,
		MenuExchangeCalculator,
		MenuExchangeAlerts,
		MenuCardApplication,
		MenuLoan,
		MenuLoanDocuments,
		MenuLoanCalculator,
		MenuHistory,
		MenuTransfer,
	}
}

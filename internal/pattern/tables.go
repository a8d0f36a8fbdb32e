package pattern

import "github.com/Veraticus/sol-search/internal/model"

// TransferKeywords signal a money transfer.
var TransferKeywords = []string{"보내", "부쳐", "송금", "이체"}

// SearchKeywords signal a transaction search.
var SearchKeywords = []string{"내역", "거래", "조회", "결제", "출금", "입금", "지출", "사용"}

// ExtraMenuKeywords route to the menu intent even without a table match.
var ExtraMenuKeywords = []string{"해외결제", "자동이체", "알림", "한도", "비밀번호", "인증"}

// Compound phrases masked before the transfer keyword check. Each one
// belongs to search or menu even though it contains a transfer keyword.
var transferMask = []string{
	"송금내역", "이체내역", "송금 내역", "이체 내역",
	"송금하기", "이체하기", "계좌이체", "자동이체", "해외결제",
}

// Compound phrases masked before the search keyword check.
var searchMask = []string{
	"송금하기", "이체하기", "계좌이체", "자동이체", "해외결제",
	"대출조회", "대출 조회", "서류조회", "서류 조회",
}

// DefaultStopWords are common nouns and verbs never accepted as names.
var DefaultStopWords = []string{
	"거래", "내역", "송금", "이체", "조회", "설정", "만원", "천원", "억원", "백원",
	"보내", "보내줘", "보내기", "알려줘", "보여줘", "해줘", "찾아줘", "주세요", "해주세요",
	"얼마", "얼마나", "잔액", "계좌", "은행", "확인", "전체", "모두", "전부",
	"오늘", "어제", "그제", "최근", "이번", "지난", "올해", "작년",
	"입금", "출금", "결제", "사용", "지출", "카드", "신청", "대출", "환전",
	"개월", "주일", "월급", "용돈", "보너스", "우리", "얼마야",
}

// DefaultMerchants is the merchant allow-list, checked in order.
var DefaultMerchants = []string{
	"스타벅스", "맥도날드", "이마트", "GS25", "교촌치킨", "무신사",
	"CU", "세븐일레븐", "쿠팡", "배달의민족", "올리브영", "다이소", "홈플러스", "롯데마트",
}

// MenuRule maps a group of keywords to a menu type.
type MenuRule struct {
	MenuType model.MenuType
	Keywords []string
}

// DefaultMenuRules is evaluated top to bottom; the first matching group wins.
// Specific screens come before the generic ones they overlap with.
var DefaultMenuRules = []MenuRule{
	{MenuType: model.MenuExchangeCalculator, Keywords: []string{"환율계산기", "환율계산", "환율 계산"}},
	{MenuType: model.MenuExchangeAlerts, Keywords: []string{"환율알림", "환율 알림", "알림설정", "알림 설정"}},
	{MenuType: model.MenuLoanDocuments, Keywords: []string{"대출서류", "대출 서류", "계약서", "서류조회"}},
	{MenuType: model.MenuLoanCalculator, Keywords: []string{"대출계산", "대출 계산", "이자계산", "이자 계산"}},
	{MenuType: model.MenuCardApplication, Keywords: []string{"카드신청", "카드 신청", "체크카드", "신용카드", "카드발급", "카드 발급"}},
	{MenuType: model.MenuHistory, Keywords: []string{"입출금내역", "거래내역", "내역조회"}},
	{MenuType: model.MenuTransfer, Keywords: []string{"계좌이체", "송금하기", "이체하기"}},
	{MenuType: model.MenuExchange, Keywords: []string{"환전", "달러", "유로", "엔화", "환율"}},
	{MenuType: model.MenuLoan, Keywords: []string{"대출", "대출조회", "대출관리"}},
	{MenuType: model.MenuExchangeCalculator, Keywords: []string{"계산기"}},
	{MenuType: model.MenuCardApplication, Keywords: []string{"카드"}},
}

// Amount phrases are runs of number and unit groups such as "1억 5천만원" or
// "10만 5천원". A bare number must carry the 원 suffix so digits such as
// "8월" or "abc123" never read as an amount.
const (
	amountNumber = `(?:\d{1,3}(?:,\d{3})+|\d+)`
	amountUnit   = `(?:[천백십]?[억만]|[천백십])`

	amountPhraseExpr = `(?:` + amountNumber + `\s*` + amountUnit + `\s*)+(?:` + amountNumber + `\s*원|원)?` +
		`|` + amountNumber + `\s*원`
	amountGroupExpr = `(` + amountNumber + `)\s*(` + amountUnit + `)?`
)

// Units below 만 scale one group; 만 and 억 close the section before them.
var (
	amountSmallUnits = map[rune]int64{'십': 10, '백': 100, '천': 1_000}
	amountLargeUnits = map[rune]int64{'만': 10_000, '억': 100_000_000}
)

// Name patterns in priority order: honorific or particle suffixed first.
var defaultNamePatterns = []string{
	`^([가-힣]{2,4}?)(?:님에게|님한테|님께|에게|한테|께|님|씨)$`,
	`^([가-힣]{2,4})$`,
}

var defaultMerchantSuffixes = []string{
	`[가-힣A-Za-z0-9]+(?:카페|마트|치킨)`,
}

// DateKind classifies a matched date expression.
type DateKind string

// Date expression kinds.
const (
	DateToday        DateKind = "today"
	DateYesterday    DateKind = "yesterday"
	DateDayBefore    DateKind = "day_before_yesterday"
	DateThisWeek     DateKind = "this_week"
	DateLastWeek     DateKind = "last_week"
	DateThisMonth    DateKind = "this_month"
	DateLastMonth    DateKind = "last_month"
	DateThisYear     DateKind = "this_year"
	DateLastYear     DateKind = "last_year"
	DateMonth        DateKind = "month"
	DateRecentN      DateKind = "recent_n"
	DateLastNMonths  DateKind = "last_n_months"
	DateDaysAgo      DateKind = "days_ago"
	DateRecentPeriod DateKind = "recent"
)

// Date patterns in priority order. Longer phrases precede their prefixes.
var defaultDatePatterns = []struct {
	kind DateKind
	expr string
}{
	{kind: DateRecentN, expr: `최근\s*(\d+)\s*(개월|달|주일|주|일)`},
	{kind: DateLastNMonths, expr: `지난\s*(\d+|한|두|세|네|다섯|여섯)\s*(?:개월|달)`},
	{kind: DateMonth, expr: `(\d{1,2})\s*월`},
	{kind: DateDaysAgo, expr: `(\d+)\s*일\s*전`},
	{kind: DateDayBefore, expr: `그저께|그제`},
	{kind: DateYesterday, expr: `어제`},
	{kind: DateToday, expr: `오늘`},
	{kind: DateThisWeek, expr: `이번\s*주`},
	{kind: DateLastWeek, expr: `지난\s*주|저번\s*주`},
	{kind: DateThisMonth, expr: `이번\s*달`},
	{kind: DateLastMonth, expr: `지난\s*달|저번\s*달`},
	{kind: DateThisYear, expr: `올해|금년`},
	{kind: DateLastYear, expr: `작년|지난\s*해`},
	{kind: DateRecentPeriod, expr: `최근`},
}

var koreanCounts = map[string]int{
	"한": 1, "두": 2, "세": 3, "네": 4, "다섯": 5, "여섯": 6,
}

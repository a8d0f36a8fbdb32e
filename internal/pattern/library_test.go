package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/sol-search/internal/model"
)

func TestMatchAmount(t *testing.T) {
	lib := Default()

	tests := []struct {
		name   string
		input  string
		want   int64
		wantOK bool
	}{
		{name: "man unit", input: "김네모 10만원 보내줘", want: 100_000, wantOK: true},
		{name: "man without won", input: "엄마한테 5만 보내", want: 50_000, wantOK: true},
		{name: "cheon unit", input: "박민수 5천원", want: 5_000, wantOK: true},
		{name: "eok unit", input: "1억 송금", want: 100_000_000, wantOK: true},
		{name: "separators stripped", input: "50,000원 보내줘", want: 50_000, wantOK: true},
		{name: "plain won", input: "2000원 이체", want: 2_000, wantOK: true},
		{name: "first phrase wins", input: "3만원 그리고 500원", want: 30_000, wantOK: true},
		{name: "cheonman compound", input: "김네모 3천만원 보내줘", want: 30_000_000, wantOK: true},
		{name: "baekman compound", input: "5백만원 이체", want: 5_000_000, wantOK: true},
		{name: "eok and cheonman", input: "1억 5천만원 송금", want: 150_000_000, wantOK: true},
		{name: "man and cheon", input: "10만 5천원 보내", want: 105_000, wantOK: true},
		{name: "man and cheon unspaced", input: "2만5천원", want: 25_000, wantOK: true},
		{name: "section before man", input: "5천 3백만원", want: 53_000_000, wantOK: true},
		{name: "eok with plain won", input: "1억 5000원", want: 100_005_000, wantOK: true},
		{name: "man with digits", input: "1,500만원", want: 15_000_000, wantOK: true},
		{name: "month is not an amount", input: "8월 거래내역", wantOK: false},
		{name: "bare digits", input: "asdkjh123", wantOK: false},
		{name: "overflow skipped", input: "99999999999999999999억", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lib.MatchAmount(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatchName(t *testing.T) {
	lib := Default()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "bare name", input: "김네모 10만원 보내줘", want: "김네모", wantOK: true},
		{name: "particle suffix", input: "김철수에게 송금", want: "김철수", wantOK: true},
		{name: "honorific with particle", input: "이영희님한테 3만원", want: "이영희", wantOK: true},
		{name: "ssi suffix", input: "박민수씨 5천원", want: "박민수", wantOK: true},
		{name: "suffixed beats bare", input: "보내줘 홍길동 엄마에게", want: "엄마", wantOK: true},
		{name: "stop word only", input: "거래 10만원", wantOK: false},
		{name: "man won is not a name", input: "만원 보내", wantOK: false},
		{name: "merchant is not a name", input: "스타벅스 내역", wantOK: false},
		{name: "date word is not a name", input: "지난달 내역", wantOK: false},
		{name: "keyword compound is not a name", input: "거래내역 조회", wantOK: false},
		{name: "single syllable", input: "형 보내", wantOK: false},
		{name: "too long", input: "이동그라미다섯 보내", wantOK: false},
		{name: "no hangul", input: "asdkjh123", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lib.MatchName(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalName(t *testing.T) {
	lib := Default()

	tests := []struct {
		input string
		want  string
	}{
		{input: "김네모님", want: "김네모"},
		{input: "김네모님에게", want: "김네모"},
		{input: "박민수씨", want: "박민수"},
		{input: "엄마한테", want: "엄마"},
		{input: " 김네모 ", want: "김네모"},
		{input: "김네모", want: "김네모"},
		{input: "김씨", want: "김씨"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, lib.CanonicalName(tt.input))
		})
	}
}

func TestStopWordsAreExtensible(t *testing.T) {
	lib, err := NewLibrary(Options{ExtraStopWords: []string{"엄마"}})
	require.NoError(t, err)

	assert.True(t, lib.IsStopWord("엄마"))
	_, ok := lib.MatchName("엄마 5만원")
	assert.False(t, ok)

	_, ok = Default().MatchName("엄마 5만원")
	assert.True(t, ok, "extra stop words must not leak into the default library")
}

func TestMatchMerchant(t *testing.T) {
	lib := Default()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "allow list", input: "스타벅스 거래내역", want: "스타벅스", wantOK: true},
		{name: "case insensitive", input: "gs25 결제", want: "GS25", wantOK: true},
		{name: "list order wins", input: "이마트 스타벅스", want: "스타벅스", wantOK: true},
		{name: "suffix pattern", input: "동네카페 내역", want: "동네카페", wantOK: true},
		{name: "allow list before suffix", input: "교촌치킨 결제", want: "교촌치킨", wantOK: true},
		{name: "none", input: "김네모 보내줘", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lib.MatchMerchant(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	extended, err := NewLibrary(Options{ExtraMerchants: []string{"파리바게뜨"}})
	require.NoError(t, err)
	got, ok := extended.MatchMerchant("파리바게뜨 결제내역")
	assert.True(t, ok)
	assert.Equal(t, "파리바게뜨", got)
}

func TestMatchDateExpression(t *testing.T) {
	lib := Default()

	tests := []struct {
		name  string
		input string
		kind  DateKind
		value int
		unit  string
	}{
		{name: "recent months", input: "최근 3개월 출금내역", kind: DateRecentN, value: 3, unit: "개월"},
		{name: "recent week", input: "최근 1주일 내역", kind: DateRecentN, value: 1, unit: "주일"},
		{name: "last two months", input: "지난 두달 내역", kind: DateLastNMonths, value: 2},
		{name: "month", input: "8월 스타벅스", kind: DateMonth, value: 8},
		{name: "days ago", input: "3일전 결제", kind: DateDaysAgo, value: 3},
		{name: "last month", input: "지난달 입금", kind: DateLastMonth},
		{name: "yesterday", input: "어제 쓴 돈", kind: DateYesterday},
		{name: "this week", input: "이번 주 지출", kind: DateThisWeek},
		{name: "recent alone", input: "최근 내역", kind: DateRecentPeriod},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lib.MatchDateExpression(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.value, got.Value)
			assert.Equal(t, tt.unit, got.Unit)
			assert.NotEmpty(t, got.Text)
		})
	}

	_, ok := lib.MatchDateExpression("김네모 보내줘")
	assert.False(t, ok)
}

func TestMatchMenuPriority(t *testing.T) {
	lib := Default()

	tests := []struct {
		input string
		want  model.MenuType
	}{
		{input: "환율계산기 환전", want: model.MenuExchangeCalculator},
		{input: "환전 환율계산기", want: model.MenuExchangeCalculator},
		{input: "환율 알림 설정", want: model.MenuExchangeAlerts},
		{input: "대출 계산기", want: model.MenuLoanCalculator},
		{input: "대출서류", want: model.MenuLoanDocuments},
		{input: "달러 환전", want: model.MenuExchange},
		{input: "대출", want: model.MenuLoan},
		{input: "체크카드 만들기", want: model.MenuCardApplication},
		{input: "계좌이체", want: model.MenuTransfer},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := lib.MatchMenu(tt.input)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := lib.MatchMenu("asdkjh123")
	assert.False(t, ok)
}

func TestKeywordMasks(t *testing.T) {
	lib := Default()

	assert.True(t, lib.HasTransferKeyword("홍길동 보내줘"))
	assert.False(t, lib.HasTransferKeyword("송금내역 보여줘"))
	assert.False(t, lib.HasTransferKeyword("계좌이체"))
	assert.True(t, lib.HasSearchKeyword("송금내역 보여줘"))
	assert.False(t, lib.HasSearchKeyword("해외결제 설정"))
	assert.False(t, lib.HasSearchKeyword("대출조회"))
	assert.True(t, lib.HasExtraMenuKeyword("자동이체 관리"))
}

func TestMatchTransactionType(t *testing.T) {
	lib := Default()

	assert.Equal(t, model.TypeDeposit, lib.MatchTransactionType("1월 입금내역"))
	assert.Equal(t, model.TypeWithdrawal, lib.MatchTransactionType("최근 출금"))
	assert.Equal(t, model.TypeWithdrawal, lib.MatchTransactionType("송금 내역"))
	assert.Equal(t, model.TransactionType(""), lib.MatchTransactionType("거래내역"))
}

func TestNormalize(t *testing.T) {
	decomposed := "\u1100\u1161\u11bc"
	assert.Equal(t, "강", Normalize(decomposed))
	assert.Equal(t, "김네모 10만원", Normalize("  김네모\t 10만원 "))
}

package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/sol-search/internal/model"
)

const systemInstruction = "당신은 은행 앱의 자연어 명령 분석기입니다. 설명이나 마크다운 없이 JSON 객체 하나만 응답하세요."

// buildPrompt renders the classification prompt for query, resolving
// relative periods against anchor.
func buildPrompt(query string, anchor time.Time) string {
	today := anchor.Format(model.DateLayout)
	lastMonthStart := time.Date(anchor.Year(), anchor.Month()-1, 1, 0, 0, 0, 0, time.UTC)
	lastMonthEnd := lastMonthStart.AddDate(0, 1, -1)

	menus := make([]string, 0, len(model.MenuTypes()))
	for _, m := range model.MenuTypes() {
		menus = append(menus, string(m))
	}

	var b strings.Builder
	b.WriteString("사용자의 은행 앱 검색어를 분석해 의도(intent)와 개체(entities)를 추출하세요.\n\n")
	b.WriteString("## intent\n")
	b.WriteString("- transfer: 송금/이체. 사람 이름과 금액, 또는 보내/송금/이체 표현 (예: \"홍길동 10만원 보내줘\")\n")
	b.WriteString("- search: 거래내역 조회. 가맹점, 기간, 입출금 구분 (예: \"최근 3개월 출금내역\")\n")
	b.WriteString("- menu: 특정 화면으로 이동 (예: \"환율계산기\", \"대출서류\")\n")
	b.WriteString("- unknown: 그 외\n\n")
	b.WriteString("## entities\n")
	b.WriteString("- transfer: person (한글 이름), amount (원 단위 정수)\n")
	b.WriteString("- search: merchant, person, transaction_type (deposit|withdrawal|all), ")
	b.WriteString("date_range {start_date, end_date (YYYY-MM-DD), period_type (month|week|recent|custom), description}\n")
	fmt.Fprintf(&b, "- menu: menu_type (%s 중 하나, 필수)\n", strings.Join(menus, ", "))
	b.WriteString("- unknown: 빈 객체\n\n")
	b.WriteString("## 기간 계산\n")
	fmt.Fprintf(&b, "오늘은 %s 입니다. 상대적인 기간은 이 날짜 기준으로 계산하세요.\n", today)
	fmt.Fprintf(&b, "- \"지난달\" → %s ~ %s (period_type: month)\n",
		lastMonthStart.Format(model.DateLayout), lastMonthEnd.Format(model.DateLayout))
	fmt.Fprintf(&b, "- \"최근 1개월\" → %s ~ %s (period_type: recent)\n",
		anchor.AddDate(0, -1, 0).Format(model.DateLayout), today)
	b.WriteString("- \"N월\" → 해당 월 1일 ~ 말일 (period_type: month)\n\n")
	b.WriteString("## confidence\n")
	b.WriteString("0.9 이상: 키워드와 개체가 모두 명확, 0.7~0.8: 키워드 일치, 0.5 이하: 애매함\n\n")
	b.WriteString("## 응답 형식\n")
	b.WriteString(`{"intent": "...", "entities": {...}, "confidence": 0.0, "reasoning": "..."}`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "검색어: %q\n", query)
	return b.String()
}

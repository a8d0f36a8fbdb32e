package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Veraticus/sol-search/internal/model"
)

var printer = message.NewPrinter(language.Korean)

// Won formats an amount as "100,000원".
func Won(amount int64) string {
	return printer.Sprintf("%d원", amount)
}

// signedWon prefixes deposits with "+" and colors by direction.
func signedWon(amount int64) string {
	if amount >= 0 {
		return DepositStyle.Render("+" + Won(amount))
	}
	return WithdrawalStyle.Render(Won(amount))
}

// RenderEnvelope renders env for a terminal.
func RenderEnvelope(env model.ResponseEnvelope) string {
	var b strings.Builder

	b.WriteString(headline(env))
	b.WriteString("\n")

	if body := renderScreen(env.ScreenData); body != "" {
		b.WriteString(body)
		b.WriteString("\n")
	}

	meta := []string{fmt.Sprintf("action=%s", env.ActionType)}
	if env.RedirectTarget != "" {
		meta = append(meta, "route="+env.RedirectTarget)
	}
	meta = append(meta, fmt.Sprintf("confidence=%.2f", env.Confidence))
	b.WriteString(SubtleStyle.Render(strings.Join(meta, "  ")))

	if len(env.Suggestions) > 0 {
		b.WriteString("\n")
		chips := make([]string, 0, len(env.Suggestions))
		for _, s := range env.Suggestions {
			chips = append(chips, "["+s+"]")
		}
		b.WriteString(BoldStyle.Render(strings.Join(chips, " ")))
	}
	return b.String()
}

func headline(env model.ResponseEnvelope) string {
	switch {
	case env.ActionType == model.ActionError:
		return FormatError(env.Message)
	case !env.Success:
		return FormatWarning(env.Message)
	default:
		return FormatSuccess(actionIcon(env.ActionType) + " " + env.Message)
	}
}

func actionIcon(a model.ActionType) string {
	switch a {
	case model.ActionTransfer:
		return TransferIcon
	case model.ActionSearch:
		return SearchIcon
	case model.ActionMenu:
		return MenuIcon
	default:
		return HelpIcon
	}
}

func renderScreen(data any) string {
	switch s := data.(type) {
	case model.TransferScreen:
		return renderTransfer(s)
	case model.SearchScreen:
		return renderSearch(s)
	case model.MenuScreen:
		return SubtleStyle.Render(fmt.Sprintf("→ %s (%s)", s.Route, s.MenuType))
	case model.HelpScreen:
		return renderHelp(s)
	case model.ErrorScreen:
		return SubtleStyle.Render(s.ErrorDetails)
	default:
		return ""
	}
}

func renderTransfer(s model.TransferScreen) string {
	lines := []string{
		fmt.Sprintf("받는 분  %s", BoldStyle.Render(s.RecipientName)),
		fmt.Sprintf("계좌     %s %s", s.RecipientBank, s.RecipientAccount),
	}
	if s.Amount != nil {
		amount := Won(*s.Amount)
		if s.LimitExceeded {
			amount = ErrorStyle.Render(amount + " (한도 초과)")
		}
		lines = append(lines, "금액     "+amount)
	}
	last := fmt.Sprintf("최근     %s %s", s.LastTransfer.Date, Won(s.LastTransfer.Amount))
	if s.LastTransfer.Memo != "" {
		last += " · " + s.LastTransfer.Memo
	}
	lines = append(lines, SubtleStyle.Render(last))
	return RenderBox("송금", strings.Join(lines, "\n"))
}

func renderSearch(s model.SearchScreen) string {
	if len(s.Transactions) == 0 {
		return ""
	}

	rows := make([]string, 0, len(s.Transactions)+1)
	for _, txn := range s.Transactions {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Render(txn.DateString()),
			TableCellStyle.Render(txn.Time),
			TableCellStyle.Width(18).Render(txn.Description),
			TableCellStyle.Render(signedWon(txn.Amount)),
		))
	}
	rows = append(rows, SubtleStyle.Render(fmt.Sprintf("입금 %s · 출금 %s · 합계 %s",
		Won(s.Summary.TotalDeposit), Won(s.Summary.TotalWithdrawal), Won(s.Summary.NetAmount))))

	return RenderBox(fmt.Sprintf("거래내역 %d건", s.Count), strings.Join(rows, "\n"))
}

func renderHelp(s model.HelpScreen) string {
	var lines []string
	for _, c := range s.Contacts {
		lines = append(lines, fmt.Sprintf("%s  %s %s", BoldStyle.Render(c.Name), c.Bank, SubtleStyle.Render(c.LastDate)))
	}
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	for _, ex := range s.Examples {
		lines = append(lines, "“"+ex+"”")
	}
	if len(lines) == 0 {
		return ""
	}
	return RenderBox("이렇게 말해보세요", strings.Join(lines, "\n"))
}

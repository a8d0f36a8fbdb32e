// Package pattern holds the Korean lexicons and regular expressions used to
// recognise intents and entities in banking commands.
package pattern

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/Veraticus/sol-search/internal/model"
)

// DatePattern recognises one family of date expressions.
type DatePattern struct {
	Regex *regexp.Regexp
	Kind  DateKind
}

// DateMatch is a raw date expression found in a query.
type DateMatch struct {
	Kind  DateKind
	Text  string
	Unit  string
	Value int
}

// Options extends the default tables.
type Options struct {
	ExtraStopWords []string
	ExtraMerchants []string
}

// Library is an immutable set of lexicons and compiled patterns.
// It is safe for concurrent use.
type Library struct {
	stopWords        map[string]struct{}
	hangulRun        *regexp.Regexp
	amountPhrase     *regexp.Regexp
	amountGroup      *regexp.Regexp
	names            []*regexp.Regexp
	merchantSuffixes []*regexp.Regexp
	dates            []DatePattern
	merchants        []string
	menuRules        []MenuRule
	nameBlockers     []string
}

var defaultLibrary = mustLibrary(Options{})

// Default returns the library built from the default tables.
func Default() *Library {
	return defaultLibrary
}

func mustLibrary(opts Options) *Library {
	lib, err := NewLibrary(opts)
	if err != nil {
		panic(err)
	}
	return lib
}

// NewLibrary compiles the default tables extended by opts.
func NewLibrary(opts Options) (*Library, error) {
	lib := &Library{
		stopWords: make(map[string]struct{}, len(DefaultStopWords)+len(opts.ExtraStopWords)),
		hangulRun: regexp.MustCompile(`[가-힣]+`),
		menuRules: DefaultMenuRules,
	}

	for _, w := range DefaultStopWords {
		lib.stopWords[w] = struct{}{}
	}
	for _, w := range opts.ExtraStopWords {
		w = Normalize(w)
		if w != "" {
			lib.stopWords[w] = struct{}{}
		}
	}

	lib.merchants = append(lib.merchants, DefaultMerchants...)
	for _, m := range opts.ExtraMerchants {
		m = Normalize(m)
		if m != "" {
			lib.merchants = append(lib.merchants, m)
		}
	}

	var err error
	if lib.amountPhrase, err = regexp.Compile(amountPhraseExpr); err != nil {
		return nil, fmt.Errorf("failed to compile amount phrase pattern: %w", err)
	}
	if lib.amountGroup, err = regexp.Compile(amountGroupExpr); err != nil {
		return nil, fmt.Errorf("failed to compile amount group pattern: %w", err)
	}

	for _, expr := range defaultNamePatterns {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile name pattern %q: %w", expr, err)
		}
		lib.names = append(lib.names, re)
	}

	for _, expr := range defaultMerchantSuffixes {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile merchant pattern %q: %w", expr, err)
		}
		lib.merchantSuffixes = append(lib.merchantSuffixes, re)
	}

	for _, p := range defaultDatePatterns {
		re, err := regexp.Compile(p.expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile date pattern %s: %w", p.kind, err)
		}
		lib.dates = append(lib.dates, DatePattern{Kind: p.kind, Regex: re})
	}

	// Any keyword inside a name candidate disqualifies it.
	lib.nameBlockers = append(lib.nameBlockers, TransferKeywords...)
	lib.nameBlockers = append(lib.nameBlockers, SearchKeywords...)
	lib.nameBlockers = append(lib.nameBlockers, ExtraMenuKeywords...)
	for _, rule := range lib.menuRules {
		lib.nameBlockers = append(lib.nameBlockers, rule.Keywords...)
	}

	return lib, nil
}

// Normalize composes Hangul to NFC and collapses runs of whitespace.
func Normalize(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// IsStopWord reports whether word may never be a person name.
func (l *Library) IsStopWord(word string) bool {
	_, ok := l.stopWords[word]
	return ok
}

// HasTransferKeyword reports whether a transfer keyword appears outside the
// compound phrases owned by other intents.
func (l *Library) HasTransferKeyword(text string) bool {
	return containsAny(mask(text, transferMask), TransferKeywords)
}

// HasSearchKeyword reports whether a search keyword appears outside the
// compound phrases owned by other intents.
func (l *Library) HasSearchKeyword(text string) bool {
	return containsAny(mask(text, searchMask), SearchKeywords)
}

// HasExtraMenuKeyword reports whether one of the extra menu keywords appears.
func (l *Library) HasExtraMenuKeyword(text string) bool {
	return containsAny(text, ExtraMenuKeywords)
}

// MatchMenu walks the menu table in order and returns the first group that matches.
func (l *Library) MatchMenu(text string) (model.MenuType, bool) {
	for _, rule := range l.menuRules {
		if containsAny(text, rule.Keywords) {
			return rule.MenuType, true
		}
	}
	return "", false
}

// MatchAmount returns the amount in KRW of the first amount phrase in text.
// Groups inside a phrase are summed the way they are read aloud, so
// "1억 5천만원" is 150,000,000 and "10만 5천원" is 105,000.
func (l *Library) MatchAmount(text string) (int64, bool) {
	for _, phrase := range l.amountPhrase.FindAllString(text, -1) {
		if value, ok := l.parseAmountPhrase(phrase); ok {
			return value, true
		}
	}
	return 0, false
}

func (l *Library) parseAmountPhrase(phrase string) (int64, bool) {
	var total, section int64
	for _, g := range l.amountGroup.FindAllStringSubmatch(phrase, -1) {
		value, err := strconv.ParseInt(strings.ReplaceAll(g[1], ",", ""), 10, 64)
		if err != nil {
			return 0, false
		}
		large := int64(1)
		for _, r := range g[2] {
			if m, ok := amountSmallUnits[r]; ok {
				if value, ok = mulAmount(value, m); !ok {
					return 0, false
				}
				continue
			}
			large = amountLargeUnits[r]
		}
		var ok bool
		if section, ok = addAmount(section, value); !ok {
			return 0, false
		}
		if large > 1 {
			if section, ok = mulAmount(section, large); !ok {
				return 0, false
			}
			if total, ok = addAmount(total, section); !ok {
				return 0, false
			}
			section = 0
		}
	}
	total, ok := addAmount(total, section)
	if !ok || total <= 0 {
		return 0, false
	}
	return total, true
}

func mulAmount(a, b int64) (int64, bool) {
	if b != 0 && a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

func addAmount(a, b int64) (int64, bool) {
	if a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// MatchName returns the first acceptable person name. Patterns are tried in
// declaration order over every Hangul run in the text.
func (l *Library) MatchName(text string) (string, bool) {
	runs := l.hangulRun.FindAllString(text, -1)
	for _, re := range l.names {
		for _, run := range runs {
			m := re.FindStringSubmatch(run)
			if m == nil {
				continue
			}
			if l.acceptName(m[1]) {
				return m[1], true
			}
		}
	}
	return "", false
}

// CanonicalName strips an honorific or particle suffix such as 님 or 에게 from
// a name supplied by another source. Names without a suffix are returned
// trimmed but otherwise unchanged.
func (l *Library) CanonicalName(name string) string {
	name = Normalize(name)
	if name == "" || len(l.names) == 0 {
		return name
	}
	if m := l.names[0].FindStringSubmatch(name); m != nil && utf8.RuneCountInString(m[1]) >= 2 {
		return m[1]
	}
	return name
}

func (l *Library) acceptName(candidate string) bool {
	if utf8.RuneCountInString(candidate) < 2 {
		return false
	}
	if l.IsStopWord(candidate) {
		return false
	}
	if containsAny(candidate, l.nameBlockers) {
		return false
	}
	if _, ok := l.MatchMerchant(candidate); ok {
		return false
	}
	if _, ok := l.MatchDateExpression(candidate); ok {
		return false
	}
	return true
}

// MatchMerchant checks the allow-list in order, then the suffix patterns.
func (l *Library) MatchMerchant(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range l.merchants {
		if strings.Contains(lower, strings.ToLower(m)) {
			return m, true
		}
	}
	for _, re := range l.merchantSuffixes {
		if found := re.FindString(text); found != "" {
			return found, true
		}
	}
	return "", false
}

// MatchDateExpression returns the first date expression found, in pattern order.
func (l *Library) MatchDateExpression(text string) (DateMatch, bool) {
	for _, p := range l.dates {
		m := p.Regex.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		dm := DateMatch{Kind: p.Kind, Text: m[0]}
		if len(m) > 1 {
			dm.Value = parseCount(m[1])
		}
		if len(m) > 2 {
			dm.Unit = m[2]
		}
		return dm, true
	}
	return DateMatch{}, false
}

// MatchTransactionType reads the money direction a query asks for.
// It returns the empty type when the query names none.
func (l *Library) MatchTransactionType(text string) model.TransactionType {
	switch {
	case strings.Contains(text, "입금"):
		return model.TypeDeposit
	case strings.Contains(text, "출금"), strings.Contains(text, "송금"), strings.Contains(text, "이체"):
		return model.TypeWithdrawal
	default:
		return ""
	}
}

func parseCount(s string) int {
	if n, ok := koreanCounts[s]; ok {
		return n
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func mask(text string, phrases []string) string {
	for _, p := range phrases {
		text = strings.ReplaceAll(text, p, " ")
	}
	return text
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

package classification

import (
	"fmt"
	"time"

	"github.com/Veraticus/sol-search/internal/common"
	"github.com/Veraticus/sol-search/internal/model"
	"github.com/Veraticus/sol-search/internal/pattern"
)

// ResolvePeriod turns a raw date expression into a concrete range relative
// to anchor. Ranges never end after the anchor except for whole calendar
// months and years, which always span their full length.
func (e *Extractor) ResolvePeriod(expr string, anchor time.Time) (model.DateRange, error) {
	dm, ok := e.lib.MatchDateExpression(pattern.Normalize(expr))
	if !ok {
		return model.DateRange{}, fmt.Errorf("%w: unrecognised period %q", common.ErrDateParse, expr)
	}
	return resolveMatch(dm, truncateDay(anchor))
}

func resolveMatch(dm pattern.DateMatch, day time.Time) (model.DateRange, error) {
	switch dm.Kind {
	case pattern.DateToday:
		return model.NewDateRange(day, day, model.PeriodCustom, "오늘"), nil
	case pattern.DateYesterday:
		d := day.AddDate(0, 0, -1)
		return model.NewDateRange(d, d, model.PeriodCustom, "어제"), nil
	case pattern.DateDayBefore:
		d := day.AddDate(0, 0, -2)
		return model.NewDateRange(d, d, model.PeriodCustom, "그제"), nil
	case pattern.DateThisWeek:
		return model.NewDateRange(weekStart(day), day, model.PeriodWeek, "이번 주"), nil
	case pattern.DateLastWeek:
		start := weekStart(day).AddDate(0, 0, -7)
		return model.NewDateRange(start, start.AddDate(0, 0, 6), model.PeriodWeek, "지난 주"), nil
	case pattern.DateThisMonth:
		return model.NewDateRange(monthStart(day), day, model.PeriodMonth, monthLabel(day)), nil
	case pattern.DateLastMonth:
		start := monthStart(day).AddDate(0, -1, 0)
		return wholeMonth(start), nil
	case pattern.DateThisYear:
		start := time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return model.NewDateRange(start, day, model.PeriodCustom, fmt.Sprintf("%d년", day.Year())), nil
	case pattern.DateLastYear:
		year := day.Year() - 1
		start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		return model.NewDateRange(start, end, model.PeriodCustom, fmt.Sprintf("%d년", year)), nil
	case pattern.DateMonth:
		if dm.Value < 1 || dm.Value > 12 {
			return model.DateRange{}, fmt.Errorf("%w: month %d out of range", common.ErrDateParse, dm.Value)
		}
		year := day.Year()
		if dm.Value > int(day.Month()) {
			year--
		}
		return wholeMonth(time.Date(year, time.Month(dm.Value), 1, 0, 0, 0, 0, time.UTC)), nil
	case pattern.DateRecentN:
		return recentN(dm, day)
	case pattern.DateLastNMonths:
		if dm.Value <= 0 {
			return model.DateRange{}, fmt.Errorf("%w: invalid month count in %q", common.ErrDateParse, dm.Text)
		}
		return model.NewDateRange(addMonths(day, -dm.Value), day, model.PeriodRecent, dm.Text), nil
	case pattern.DateDaysAgo:
		d := day.AddDate(0, 0, -dm.Value)
		return model.NewDateRange(d, d, model.PeriodCustom, fmt.Sprintf("%d일 전", dm.Value)), nil
	case pattern.DateRecentPeriod:
		return model.NewDateRange(addMonths(day, -1), day, model.PeriodRecent, "최근 1개월"), nil
	}
	return model.DateRange{}, fmt.Errorf("%w: unsupported period kind %s", common.ErrDateParse, dm.Kind)
}

func recentN(dm pattern.DateMatch, day time.Time) (model.DateRange, error) {
	if dm.Value <= 0 {
		return model.DateRange{}, fmt.Errorf("%w: invalid count in %q", common.ErrDateParse, dm.Text)
	}
	switch dm.Unit {
	case "개월", "달":
		return model.NewDateRange(addMonths(day, -dm.Value), day, model.PeriodRecent,
			fmt.Sprintf("최근 %d개월", dm.Value)), nil
	case "주", "주일":
		return model.NewDateRange(day.AddDate(0, 0, -7*dm.Value), day, model.PeriodRecent,
			fmt.Sprintf("최근 %d주", dm.Value)), nil
	case "일":
		return model.NewDateRange(day.AddDate(0, 0, -dm.Value), day, model.PeriodRecent,
			fmt.Sprintf("최근 %d일", dm.Value)), nil
	}
	return model.DateRange{}, fmt.Errorf("%w: unknown unit %q", common.ErrDateParse, dm.Unit)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

func monthStart(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func wholeMonth(start time.Time) model.DateRange {
	end := start.AddDate(0, 1, -1)
	return model.NewDateRange(start, end, model.PeriodMonth, monthLabel(start))
}

func monthLabel(t time.Time) string {
	return fmt.Sprintf("%d년 %d월", t.Year(), int(t.Month()))
}

// addMonths shifts by n months, clamping the day to the target month length.
func addMonths(day time.Time, n int) time.Time {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	d := day.Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}

// Package timeline partitions an ordered live-transaction list into the
// display buckets used by the history view: "This Week", "This Month" and
// "Older", with Today/Yesterday/date groups inside each.
//
// BuildHistory is pure and deterministic given (transactions, today); the
// current date is caller-supplied so the engine stays unit-testable.
package timeline

import (
	"txtracker/internal/core"
)

// EntryKind discriminates the flat rendering sequence.
type EntryKind int

const (
	// KindSection is a bucket header: "This Week", "This Month" or "Older".
	KindSection EntryKind = iota
	// KindGroup is a date sub-header: "Today", "Yesterday" or a literal date.
	KindGroup
	// KindRow is a transaction row.
	KindRow
	// KindEmpty is the single marker emitted when there are no transactions.
	KindEmpty
)

const (
	SectionWeek  = "This Week"
	SectionMonth = "This Month"
	SectionOlder = "Older"
	GroupToday   = "Today"
	GroupYest    = "Yesterday"
	EmptyLabel   = "No Transactions Yet!!"
)

// Entry is one element of the flattened history view model.
type Entry struct {
	Kind  EntryKind
	Label string
	Tx    core.Transaction
}

// BuildHistory shapes the live transaction list for display. The input must
// already be in the store's (date, time, id) descending order; within a group
// the engine only selects, it never re-sorts.
func BuildHistory(txns []core.Transaction, today core.Date) []Entry {
	if len(txns) == 0 {
		return []Entry{{Kind: KindEmpty, Label: EmptyLabel}}
	}

	yesterday := today.AddDays(-1)
	weekStart := core.StartOfWeekSunday(today)
	weekEnd := weekStart.AddDays(7)
	monthStart := core.StartOfMonth(today)
	monthEnd := core.StartOfNextMonth(today)

	// Group keys are the canonical date strings, which sort chronologically.
	weekGroups := map[string][]core.Transaction{}
	monthGroups := map[string][]core.Transaction{}
	olderGroups := map[string][]core.Transaction{}
	var weekOrder, monthOrder, olderOrder []string

	appendGroup := func(groups map[string][]core.Transaction, order *[]string, key string, tx core.Transaction) {
		if _, seen := groups[key]; !seen {
			*order = append(*order, key)
		}
		groups[key] = append(groups[key], tx)
	}

	for _, tx := range txns {
		d := tx.Date
		switch {
		// Week membership is checked first and wins the week/month overlap.
		case inRange(d, weekStart, weekEnd):
			key := d.String()
			switch {
			case d.Equal(today.Time):
				key = GroupToday
			case d.Equal(yesterday.Time):
				key = GroupYest
			}
			appendGroup(weekGroups, &weekOrder, key, tx)
		case inRange(d, monthStart, monthEnd):
			appendGroup(monthGroups, &monthOrder, d.String(), tx)
		default:
			appendGroup(olderGroups, &olderOrder, d.String(), tx)
		}
	}

	var out []Entry

	if len(weekGroups) > 0 {
		out = append(out, Entry{Kind: KindSection, Label: SectionWeek})
		// Today first, then Yesterday, then remaining dates descending.
		// The input is already date-descending, so the first-seen order of
		// the remaining keys is the render order.
		if rows, ok := weekGroups[GroupToday]; ok {
			out = appendGroupEntries(out, GroupToday, rows)
		}
		if rows, ok := weekGroups[GroupYest]; ok {
			out = appendGroupEntries(out, GroupYest, rows)
		}
		for _, key := range weekOrder {
			if key == GroupToday || key == GroupYest {
				continue
			}
			out = appendGroupEntries(out, key, weekGroups[key])
		}
	}

	if len(monthGroups) > 0 {
		out = append(out, Entry{Kind: KindSection, Label: SectionMonth})
		for _, key := range monthOrder {
			out = appendGroupEntries(out, key, monthGroups[key])
		}
	}

	if len(olderGroups) > 0 {
		out = append(out, Entry{Kind: KindSection, Label: SectionOlder})
		for _, key := range olderOrder {
			out = appendGroupEntries(out, key, olderGroups[key])
		}
	}

	return out
}

func appendGroupEntries(out []Entry, label string, rows []core.Transaction) []Entry {
	out = append(out, Entry{Kind: KindGroup, Label: label})
	for _, tx := range rows {
		out = append(out, Entry{Kind: KindRow, Label: RowLabel(tx), Tx: tx})
	}
	return out
}

// RowLabel renders the per-row date/time caption, e.g. "2024-06-15 • 2:05 PM".
func RowLabel(tx core.Transaction) string {
	return tx.Date.String() + " • " + tx.Time.Format12()
}

func inRange(d, start, end core.Date) bool {
	return !d.Before(start.Time) && d.Before(end.Time)
}

// Package admin implements the read side of the admin dashboard: filtering
// an already-fetched submission set and exporting it as CSV. All filtering
// is in-memory over the fetched rows, not a server-side query.
package admin

import (
	"strings"
	"time"

	"github.com/websitemybusiness/contact-relay/internal/domain"
)

// DateRange names the trailing windows the dashboard offers.
type DateRange string

const (
	RangeAll   DateRange = "all"
	RangeToday DateRange = "today"
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
)

// ParseDateRange maps a query parameter to a range, defaulting to all-time.
func ParseDateRange(s string) DateRange {
	switch DateRange(s) {
	case RangeToday, RangeWeek, RangeMonth:
		return DateRange(s)
	default:
		return RangeAll
	}
}

func (r DateRange) cutoff(now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch r {
	case RangeToday:
		return today, true
	case RangeWeek:
		return today.AddDate(0, 0, -7), true
	case RangeMonth:
		return today.AddDate(0, 0, -30), true
	default:
		return time.Time{}, false
	}
}

// Filter applies the search and date filters to a submission set. Search is
// a case-insensitive substring match over name, email, and message; the
// phone match is a plain substring so queries like "+1 202" work verbatim.
func Filter(subs []domain.ContactSubmission, search string, rng DateRange, now time.Time) []domain.ContactSubmission {
	searchLower := strings.ToLower(search)
	cutoff, hasCutoff := rng.cutoff(now)

	out := make([]domain.ContactSubmission, 0, len(subs))
	for _, s := range subs {
		if search != "" {
			matches := strings.Contains(strings.ToLower(s.Name), searchLower) ||
				strings.Contains(strings.ToLower(s.Email), searchLower) ||
				strings.Contains(s.Phone, search) ||
				strings.Contains(strings.ToLower(s.Message), searchLower)
			if !matches {
				continue
			}
		}
		if hasCutoff && s.CreatedAt.Before(cutoff) {
			continue
		}
		out = append(out, s)
	}
	return out
}

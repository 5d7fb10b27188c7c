package admin

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/websitemybusiness/contact-relay/internal/domain"
)

// csvTimeLayout matches the dashboard's export format.
const csvTimeLayout = "2006-01-02 15:04:05"

// WriteCSV streams the given submissions as CSV with the dashboard's
// column set. The caller passes the already-filtered rows.
func WriteCSV(w io.Writer, subs []domain.ContactSubmission) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Name", "Email", "Phone", "Message", "Date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range subs {
		row := []string{s.Name, s.Email, s.Phone, s.Message, s.CreatedAt.Format(csvTimeLayout)}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the dated download name for a CSV export.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("contact-submissions-%s.csv", now.Format("2006-01-02"))
}

package documents

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"backstage/pkg/model"
)

type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Renderer produces the bytes of a document. Real PDF generation lives
// behind this interface outside the service.
type Renderer interface {
	Render(ctx context.Context, booking *model.Booking, docType string) (*Document, error)
}

// TextRenderer emits a plain-text summary in place of a formatted document.
type TextRenderer struct{}

func (TextRenderer) Render(ctx context.Context, booking *model.Booking, docType string) (*Document, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", strings.ToUpper(strings.ReplaceAll(docType, "_", " ")))
	fmt.Fprintf(&b, "Booking: %s\n", booking.ID)
	fmt.Fprintf(&b, "Event: %s\n", booking.EventTitle)
	fmt.Fprintf(&b, "Venue: %s\n", booking.Venue)
	fmt.Fprintf(&b, "Start: %s\n", booking.EventStart.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "End: %s\n", booking.EventEnd.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Fee: %.2f\n", booking.TalentFee)

	if docType == DocTechnicalRider && booking.TechnicalRider != nil {
		writeSection(&b, "Performance", booking.TechnicalRider.Performance)
		writeSection(&b, "Technical", booking.TechnicalRider.Technical)
		writeSection(&b, "Hospitality", booking.TechnicalRider.Hospitality)
	}

	return &Document{
		FileName:    fmt.Sprintf("%s-%s.txt", docType, booking.ID),
		ContentType: "text/plain; charset=utf-8",
		Content:     []byte(b.String()),
	}, nil
}

func writeSection(b *strings.Builder, title string, fields map[string]string) {
	if len(fields) == 0 {
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(b, "\n%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(b, "  %s: %s\n", k, fields[k])
	}
}

package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/internal/quote/engine"
)

var ErrNothingToRender = errors.New("nothing_to_render")

// QuoteData is everything printed on a quote document. Amounts come from the
// booking's frozen itemization.
type QuoteData struct {
	VenueName  string
	VenueEmail string

	Reference   string
	IssueDate   string
	EventDate   string
	Status      string
	TierName    string
	Attendees   int
	Duration    string
	StaffNeeded int

	CustomerName  string
	CustomerEmail string
	Organization  string

	Lines      []engine.DocumentLine
	GrandTotal string
	Deposit    string
	Notes      string
}

// Renderer turns a quote into a printable document.
type Renderer interface {
	RenderQuote(ctx context.Context, data QuoteData) (io.Reader, error)
}

type PDFRenderer struct{}

func New() Renderer {
	return &PDFRenderer{}
}

// NewQuoteData lays out a booking and its itemization for printing.
func NewQuoteData(venueName, venueEmail string, detail bookingdomain.Detail, itemization engine.Itemization) QuoteData {
	b := detail.Booking
	data := QuoteData{
		VenueName:   venueName,
		VenueEmail:  venueEmail,
		Reference:   b.Reference,
		IssueDate:   b.CreatedAt.Format("January 2, 2006"),
		EventDate:   b.EventDate.Format("Monday, January 2, 2006"),
		Status:      string(b.Status),
		TierName:    b.TierCode,
		Attendees:   b.Attendees,
		Duration:    b.DurationHours.String() + " hrs",
		StaffNeeded: b.RequiredStaff,
		Lines:       itemization.Lines,
		GrandTotal:  engine.FormatMoney(itemization.GrandTotal),
		Deposit:     engine.FormatMoney(b.SecurityDeposit),
		Notes:       b.Notes,
	}
	if b.PackageKind != "" {
		data.TierName = fmt.Sprintf("%s (%s package)", b.TierCode, b.PackageKind)
	}
	if org, ok := b.Metadata["organization"].(string); ok {
		data.Organization = org
	}
	if detail.Customer != nil {
		data.CustomerName = detail.Customer.Name
		data.CustomerEmail = detail.Customer.Email
	}
	return data
}

func (r *PDFRenderer) RenderQuote(ctx context.Context, data QuoteData) (io.Reader, error) {
	if len(data.Lines) == 0 {
		return nil, ErrNothingToRender
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(8, data.VenueName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, "Quote", props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	if data.VenueEmail != "" {
		m.AddRow(6, text.NewCol(12, data.VenueEmail, props.Text{Size: 9}))
	}

	m.AddRow(28,
		col.New(6).Add(
			text.New("Reference: "+data.Reference, props.Text{Top: 0, Size: 9}),
			text.New("Issued: "+data.IssueDate, props.Text{Top: 5, Size: 9}),
			text.New("Event date: "+data.EventDate, props.Text{Top: 10, Size: 9}),
			text.New("Status: "+data.Status, props.Text{Top: 15, Size: 9}),
		),
		col.New(6).Add(
			text.New("Prepared for", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(data.CustomerName, props.Text{Top: 5, Size: 9}),
			text.New(data.Organization, props.Text{Top: 10, Size: 9}),
			text.New(data.CustomerEmail, props.Text{Top: 15, Size: 9}),
		),
	)

	m.AddRow(10,
		text.NewCol(4, "Rate: "+data.TierName, props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("Guests: %d", data.Attendees), props.Text{Size: 9}),
		text.NewCol(2, "Length: "+data.Duration, props.Text{Size: 9}),
		text.NewCol(3, fmt.Sprintf("Support staff: %d", data.StaffNeeded), props.Text{Size: 9, Align: align.Right}),
	)

	m.AddRow(10,
		text.NewCol(9, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(3, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(9, line.Label, props.Text{Size: 9}),
			text.NewCol(3, engine.FormatMoney(line.Amount), props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(10,
		col.New(6),
		text.NewCol(3, "Total", props.Text{Style: fontstyle.Bold, Size: 10, Top: 2}),
		text.NewCol(3, data.GrandTotal, props.Text{Style: fontstyle.Bold, Size: 10, Top: 2, Align: align.Right}),
	)
	m.AddRow(8,
		col.New(6),
		text.NewCol(6, "Includes a refundable security deposit of "+data.Deposit, props.Text{Size: 8, Align: align.Right}),
	)

	if data.Notes != "" {
		m.AddRow(16, text.NewCol(12, "Notes: "+data.Notes, props.Text{Size: 9, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(doc.GetBytes()), nil
}

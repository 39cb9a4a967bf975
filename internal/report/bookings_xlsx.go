package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	bookingdomain "github.com/smallbiznis/venuebook/internal/booking/domain"
	"github.com/smallbiznis/venuebook/pkg/db/pagination"
	"github.com/xuri/excelize/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const bookingsSheet = "Bookings"

// maxReportRows bounds a single export.
const maxReportRows = 10000

type Request struct {
	Status    bookingdomain.Status
	EventFrom *time.Time
	EventTo   *time.Time
}

type Params struct {
	fx.In

	Log      *zap.Logger
	Bookings bookingdomain.Service
}

type Service struct {
	log      *zap.Logger
	bookings bookingdomain.Service
}

func New(p Params) *Service {
	return &Service{
		log:      p.Log.Named("report.service"),
		bookings: p.Bookings,
	}
}

// BookingsWorkbook exports every booking matching req, newest first, with the
// totals frozen at booking time.
func (s *Service) BookingsWorkbook(ctx context.Context, req Request) ([]byte, error) {
	var rows []bookingdomain.Booking
	token := ""
	for {
		page, err := s.bookings.List(ctx, bookingdomain.ListRequest{
			Status:    req.Status,
			EventFrom: req.EventFrom,
			EventTo:   req.EventTo,
			PageToken: token,
			PageSize:  pagination.MaxPageSize,
		})
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Bookings...)
		if !page.HasMore || page.NextPageToken == "" || len(rows) >= maxReportRows {
			break
		}
		token = page.NextPageToken
	}
	if len(rows) > maxReportRows {
		rows = rows[:maxReportRows]
	}

	out, err := BuildBookingsWorkbook(rows)
	if err != nil {
		s.log.Error("failed to build bookings workbook", zap.Int("rows", len(rows)), zap.Error(err))
		return nil, err
	}
	return out, nil
}

var bookingColumns = []struct {
	title string
	width float64
}{
	{"Reference", 30},
	{"Event date", 12},
	{"Tier", 14},
	{"Package", 12},
	{"Status", 11},
	{"Guests", 8},
	{"Hours", 8},
	{"Staff", 7},
	{"Hall rental", 13},
	{"Event support", 13},
	{"Equipment", 12},
	{"Services", 12},
	{"Deposit", 11},
	{"Grand total", 14},
	{"Created", 18},
}

// first money column (Hall rental) and last (Grand total), 1-based.
const (
	firstMoneyCol = 9
	lastMoneyCol  = 14
)

// BuildBookingsWorkbook renders bookings into a single-sheet workbook with a
// totals row.
func BuildBookingsWorkbook(bookings []bookingdomain.Booking) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), bookingsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	moneyFormat := "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFormat})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		CustomNumFmt: &moneyFormat,
	})
	if err != nil {
		return nil, fmt.Errorf("create total style: %w", err)
	}

	for i, c := range bookingColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(bookingsSheet, name, name, c.width); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", name, err)
		}
		if err := f.SetCellValue(bookingsSheet, name+"1", c.title); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.ColumnNumberToName(len(bookingColumns))
	if err := f.SetCellStyle(bookingsSheet, "A1", lastHeader+"1", headerStyle); err != nil {
		return nil, err
	}
	if err := f.SetPanes(bookingsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.Reference,
			b.EventDate.Format("2006-01-02"),
			b.TierCode,
			b.PackageKind,
			string(b.Status),
			b.Attendees,
			b.DurationHours.InexactFloat64(),
			b.RequiredStaff,
			money(b.HallRentalTotal),
			money(b.EventSupportTotal),
			money(b.EquipmentTotal),
			money(b.ServicesTotal),
			money(b.SecurityDeposit),
			money(b.GrandTotal),
			b.CreatedAt.UTC().Format("2006-01-02 15:04"),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(bookingsSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", row, err)
		}
		if err := setRangeStyle(f, row, row, moneyStyle); err != nil {
			return nil, err
		}
	}

	totalRow := len(bookings) + 2
	if err := f.SetCellValue(bookingsSheet, fmt.Sprintf("A%d", totalRow), "Total"); err != nil {
		return nil, err
	}
	for col := firstMoneyCol; col <= lastMoneyCol; col++ {
		name, _ := excelize.ColumnNumberToName(col)
		cell := fmt.Sprintf("%s%d", name, totalRow)
		if len(bookings) == 0 {
			if err := f.SetCellFloat(bookingsSheet, cell, 0, 2, 64); err != nil {
				return nil, err
			}
			continue
		}
		formula := fmt.Sprintf("SUM(%s2:%s%d)", name, name, totalRow-1)
		if err := f.SetCellFormula(bookingsSheet, cell, formula); err != nil {
			return nil, fmt.Errorf("total formula %s: %w", cell, err)
		}
	}
	if err := setRangeStyle(f, totalRow, totalRow, totalStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRangeStyle(f *excelize.File, fromRow, toRow, style int) error {
	first, _ := excelize.ColumnNumberToName(firstMoneyCol)
	last, _ := excelize.ColumnNumberToName(lastMoneyCol)
	return f.SetCellStyle(bookingsSheet,
		fmt.Sprintf("%s%d", first, fromRow),
		fmt.Sprintf("%s%d", last, toRow),
		style,
	)
}

func money(v decimal.Decimal) float64 {
	return v.Round(2).InexactFloat64()
}

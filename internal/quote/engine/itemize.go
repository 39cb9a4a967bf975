package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type LineKind string

const (
	LineKindHall      LineKind = "hall"
	LineKindSupport   LineKind = "support"
	LineKindEquipment LineKind = "equipment"
	LineKindService   LineKind = "service"
	LineKindSecurity  LineKind = "security"
	LineKindDeposit   LineKind = "deposit"
)

type DocumentLine struct {
	Kind   LineKind        `json:"kind"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// PricedServiceLine is a service line together with the amount frozen when
// the booking was created.
type PricedServiceLine struct {
	Line   domain.ServiceLine
	Amount decimal.Decimal
}

// ItemizeInput is everything a stored booking keeps about its quote.
type ItemizeInput struct {
	Snapshot      domain.Snapshot
	DurationHours decimal.Decimal
	Attendees     int
	AlcoholServed bool
	Equipment     []domain.EquipmentLine
	Services      []PricedServiceLine
}

type Itemization struct {
	Lines      []DocumentLine  `json:"lines"`
	LineTotal  decimal.Decimal `json:"line_total"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Reconciles reports whether the displayed lines add up to the frozen grand
// total.
func (it Itemization) Reconciles() bool {
	return it.LineTotal.Equal(it.GrandTotal)
}

// Itemize re-derives display lines from a frozen snapshot. Base amounts are
// taken as the frozen subtotal minus the re-derived overtime, so the lines
// always sum to what the booking recorded.
func Itemize(in ItemizeInput) Itemization {
	snap := in.Snapshot
	overtime := OvertimeHours(in.DurationHours, snap.BaseHours)
	lines := make([]DocumentLine, 0, 6+len(in.Equipment)+len(in.Services))

	if snap.IsFlatPackage {
		lines = append(lines, DocumentLine{
			Kind:   LineKindHall,
			Label:  "Flat Package Rate",
			Amount: snap.HallRentalTotal,
		})
	} else {
		hallOvertime := roundMoney(overtime.Mul(snap.HallHourlyRate))
		lines = append(lines, DocumentLine{
			Kind:   LineKindHall,
			Label:  fmt.Sprintf("Hall Rental (first %s hrs)", formatHours(snap.BaseHours)),
			Amount: snap.HallRentalTotal.Sub(hallOvertime),
		})
		if overtime.IsPositive() {
			lines = append(lines, DocumentLine{
				Kind:   LineKindHall,
				Label:  fmt.Sprintf("Hall Overtime (%s hrs @ %s/hr)", formatHours(overtime), FormatMoney(snap.HallHourlyRate)),
				Amount: hallOvertime,
			})
		}
	}

	staff := decimal.NewFromInt(int64(snap.RequiredStaff))
	supportOvertime := roundMoney(overtime.Mul(snap.SupportHourlyRate).Mul(staff))
	lines = append(lines, DocumentLine{
		Kind:   LineKindSupport,
		Label:  fmt.Sprintf("Event Support (%d guests)", in.Attendees),
		Amount: snap.EventSupportTotal.Sub(supportOvertime),
	})
	if supportOvertime.IsPositive() {
		lines = append(lines, DocumentLine{
			Kind: LineKindSupport,
			Label: fmt.Sprintf("Event Support Overtime (%s hrs x %d staff @ %s/hr)",
				formatHours(overtime), snap.RequiredStaff, FormatMoney(snap.SupportHourlyRate)),
			Amount: supportOvertime,
		})
	}

	for _, eq := range in.Equipment {
		lines = append(lines, DocumentLine{
			Kind:   LineKindEquipment,
			Label:  fmt.Sprintf("%s (%d @ %s)", labelOr(eq.Name, "Equipment"), eq.Quantity, FormatMoney(eq.UnitRate)),
			Amount: roundMoney(eq.Total()),
		})
	}

	for _, svc := range in.Services {
		lines = append(lines, DocumentLine{
			Kind:   LineKindService,
			Label:  serviceLabel(svc.Line),
			Amount: svc.Amount,
		})
	}

	if in.AlcoholServed {
		lines = append(lines, DocumentLine{
			Kind: LineKindSecurity,
			Label: fmt.Sprintf("Mandatory Security (%s hrs @ %s/hr)",
				formatHours(in.DurationHours), FormatMoney(snap.SecuritySurchargeHourly)),
			Amount: SecuritySurcharge(snap.SecuritySurchargeHourly, true, in.DurationHours),
		})
	}

	lines = append(lines, DocumentLine{
		Kind:   LineKindDeposit,
		Label:  "Security Deposit",
		Amount: roundMoney(snap.SecurityDeposit),
	})

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}

	return Itemization{
		Lines:      lines,
		LineTotal:  total,
		GrandTotal: snap.GrandTotal,
	}
}

func serviceLabel(line domain.ServiceLine) string {
	name := labelOr(line.Name, "Service")
	switch line.RateType {
	case domain.RateTypeHourly:
		return fmt.Sprintf("%s (%s hrs @ %s/hr)", name, formatHours(line.Hours), FormatMoney(line.RateApplied))
	case domain.RateTypeCommission:
		pct := decimal.Zero
		if line.CommissionPct != nil {
			pct = *line.CommissionPct
		}
		return fmt.Sprintf("%s (%s%% of hall rental)", name, pct.String())
	case domain.RateTypeIncluded:
		return name + " (included)"
	default:
		return name
	}
}

// FormatMoney renders an amount the way quotes print it, e.g. $1,170.00.
func FormatMoney(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	fixed := v.StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return sign + "$" + fixed
	}
	return sign + "$" + message.NewPrinter(language.English).Sprintf("%d", n) + "." + frac
}

func formatHours(v decimal.Decimal) string {
	return v.String()
}

func labelOr(v, def string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return def
}

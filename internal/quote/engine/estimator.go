package engine

import (
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/venuebook/internal/quote/domain"
)

// Estimate produces member and non-member lower-bound figures for marketing
// previews. Equipment, services, deposit and the security surcharge are left
// out, so the result is never a quote.
func (c *Calculator) Estimate(durationHours decimal.Decimal, guestCount int) (domain.PackageEstimate, error) {
	presets := c.policy.Estimator

	member, err := c.Calculate(presetInput(presets.Member, presets, durationHours, guestCount))
	if err != nil {
		return domain.PackageEstimate{}, err
	}
	nonMember, err := c.Calculate(presetInput(presets.NonMember, presets, durationHours, guestCount))
	if err != nil {
		return domain.PackageEstimate{}, err
	}

	return domain.PackageEstimate{
		DurationHours:     durationHours,
		GuestCount:        guestCount,
		RequiredStaff:     member.RequiredStaff,
		MemberEstimate:    member.GrandTotal,
		NonMemberEstimate: nonMember.GrandTotal,
		LowerBound:        true,
	}, nil
}

func presetInput(preset domain.RatePreset, presets domain.EstimatorPresets, durationHours decimal.Decimal, guestCount int) domain.QuoteInput {
	return domain.QuoteInput{
		TierRates: domain.TierRates{
			HallBaseRate:       preset.HallBaseRate,
			HallHourlyRate:     preset.HallHourlyRate,
			EventSupportBase:   presets.SupportBase,
			EventSupportHourly: presets.SupportHourly,
		},
		EventDurationHours: durationHours,
		TotalAttendees:     guestCount,
	}
}

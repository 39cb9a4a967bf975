package domain

import "github.com/shopspring/decimal"

// Policy carries the pricing constants the calculator and estimator read.
// A Policy value is treated as read-only once handed to a calculation.
type Policy struct {
	BaseHours               decimal.Decimal   `json:"base_hours"`
	SecuritySurchargeHourly decimal.Decimal   `json:"security_surcharge_hourly"`
	Brackets                []StaffingBracket `json:"brackets"`
	Estimator               EstimatorPresets  `json:"estimator"`
}

// PolicySource yields the policy in force for the next calculation.
type PolicySource interface {
	Get() Policy
}

func DefaultPolicy() Policy {
	return Policy{
		BaseHours:               decimal.NewFromInt(4),
		SecuritySurchargeHourly: decimal.NewFromInt(300),
		Brackets:                CanonicalBrackets(),
		Estimator: EstimatorPresets{
			Member: RatePreset{
				HallBaseRate:   decimal.NewFromInt(600),
				HallHourlyRate: decimal.NewFromInt(50),
			},
			NonMember: RatePreset{
				HallBaseRate:   decimal.NewFromInt(800),
				HallHourlyRate: decimal.NewFromInt(100),
			},
			SupportBase:   decimal.NewFromInt(200),
			SupportHourly: decimal.NewFromInt(35),
		},
	}
}

func CanonicalBrackets() []StaffingBracket {
	return []StaffingBracket{
		{MinAttendees: 1, MaxAttendees: intPtr(50), RequiredStaff: 1},
		{MinAttendees: 51, MaxAttendees: intPtr(150), RequiredStaff: 2},
		{MinAttendees: 151, MaxAttendees: intPtr(250), RequiredStaff: 3},
		{MinAttendees: 251, MaxAttendees: intPtr(350), RequiredStaff: 4},
		{MinAttendees: 351, MaxAttendees: intPtr(450), RequiredStaff: 5},
		{MinAttendees: 451, MaxAttendees: nil, RequiredStaff: 6},
	}
}

type staticPolicy Policy

func (p staticPolicy) Get() Policy { return Policy(p) }

// StaticPolicy wraps a fixed policy as a PolicySource.
func StaticPolicy(p Policy) PolicySource {
	return staticPolicy(p)
}

func intPtr(v int) *int { return &v }

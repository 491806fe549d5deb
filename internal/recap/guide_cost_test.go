package recap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/ptr"
)

func TestGuideCostResolver_Layers(t *testing.T) {
	tables := GuideCostTables{
		TourCosts: []domain.GuideActivityCost{
			{ID: 1, TourID: tour, Amount: money("30")},
			{ID: 2, TourID: tour, GuideID: ptr.Ptr(int64(7)), Amount: money("35")},
			{ID: 3, TourID: "vatican", GuideID: ptr.Ptr(int64(7)), Amount: money("60")},
		},
		Seasons: []domain.CostSeason{
			{ID: 1, Name: "summer", StartDate: day(2024, time.June, 1), EndDate: day(2024, time.August, 31)},
			{ID: 2, Name: "august peak", StartDate: day(2024, time.August, 1), EndDate: day(2024, time.August, 20)},
		},
		SeasonalCosts: []domain.SeasonalCost{
			{TourID: tour, SeasonID: 1, Amount: money("50")},
			{TourID: tour, SeasonID: 2, Amount: money("65")},
		},
		SpecialDates: []domain.SpecialCostDate{{ID: 1, Name: "Ferragosto", Date: day(2024, time.August, 15)}},
		SpecialDateCosts: []domain.SpecialDateCost{
			{TourID: tour, SpecialDateID: 1, Amount: money("90")},
		},
	}
	resolver := DefaultGuideCostResolver(map[int64]decimal.Decimal{100: money("12.5")}, tables)

	tests := []struct {
		name     string
		query    GuideCostQuery
		wantCost string
		wantRule string
	}{
		{
			name:     "override wins over everything",
			query:    GuideCostQuery{AssignmentID: 100, TourID: tour, GuideID: 7, Date: day(2024, time.August, 15)},
			wantCost: "12.5", wantRule: RuleOverride,
		},
		{
			name:     "special date over season",
			query:    GuideCostQuery{AssignmentID: 1, TourID: tour, GuideID: 7, Date: day(2024, time.August, 15)},
			wantCost: "90", wantRule: RuleSpecialDate,
		},
		{
			name:     "later starting season wins on overlap",
			query:    GuideCostQuery{AssignmentID: 1, TourID: tour, GuideID: 7, Date: day(2024, time.August, 10)},
			wantCost: "65", wantRule: RuleSeasonal,
		},
		{
			name:     "season boundaries are inclusive",
			query:    GuideCostQuery{AssignmentID: 1, TourID: tour, GuideID: 7, Date: day(2024, time.August, 31)},
			wantCost: "50", wantRule: RuleSeasonal,
		},
		{
			name:     "global tour cost outside seasons",
			query:    GuideCostQuery{AssignmentID: 1, TourID: tour, GuideID: 7, Date: day(2024, time.March, 3)},
			wantCost: "30", wantRule: RuleGlobalTour,
		},
		{
			name:     "guide specific cost when tour has no global one",
			query:    GuideCostQuery{AssignmentID: 1, TourID: "vatican", GuideID: 7, Date: day(2024, time.March, 3)},
			wantCost: "60", wantRule: RuleGuideTour,
		},
		{
			name:     "nothing matches",
			query:    GuideCostQuery{AssignmentID: 1, TourID: "vatican", GuideID: 8, Date: day(2024, time.March, 3)},
			wantCost: "0", wantRule: RuleNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cost, rule := resolver.Resolve(tt.query)
			assertMoney(t, tt.wantCost, cost)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestCompute_ServiceGroupChargesPrimaryOnly(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID: tour,
		Slots: []domain.AvailabilitySlot{
			slot(1, june1, "09:00", 10, domain.SlotAvailable),
			slot(2, june1, "11:00", 10, domain.SlotAvailable),
		},
		Assignments: []domain.Assignment{
			assign(10, domain.KindGuide, 7, 1),
			assign(11, domain.KindGuide, 7, 2),
		},
		GuideCosts:    GuideCostTables{TourCosts: []domain.GuideActivityCost{{ID: 1, TourID: tour, Amount: money("70")}}},
		ServiceGroups: []domain.ServiceGroup{{ID: 1, PrimaryAssignmentID: 10, MemberAssignmentIDs: []int64{10, 11}}},
	}

	result := Compute(in, domain.PricingPolicy{})

	assertMoney(t, "70", findSlot(t, result, 1).Costs.GuideCost)
	second := findSlot(t, result, 2)
	assertMoney(t, "0", second.Costs.GuideCost)
	assert.Equal(t, []domain.ResourceRef{{ID: 7, Name: "guide-7"}}, second.Guides)
}

func TestGuideCostResolver_CustomChain(t *testing.T) {
	resolver := NewGuideCostResolver(GlobalTourRule(GuideCostTables{}))

	cost, rule := resolver.Resolve(GuideCostQuery{TourID: tour})

	assert.True(t, cost.IsZero())
	assert.Equal(t, RuleNone, rule)
}

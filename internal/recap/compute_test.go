package recap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/ptr"
	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// singleDaySnapshot слот 09:00 с полным набором назначений и слот 14:00, где работает тот же сопровождающий
func singleDaySnapshot() Snapshot {
	june1 := day(2024, time.June, 1)

	return Snapshot{
		TourID:    tour,
		StartDate: june1,
		EndDate:   june1,
		Slots: []domain.AvailabilitySlot{
			slot(1, june1, "09:00", 20, domain.SlotAvailable),
			slot(2, june1, "14:00", 10, domain.SlotLimited),
		},
		Bookings: []domain.Booking{
			booking(1, 101, at(june1, "09:00"), "250", adults(5)),
			booking(2, 102, at(june1, "09:00"), "150", adults(2), children(1)),
			booking(3, 103, at(june1, "14:00"), "100", adults(2)),
		},
		Assignments: []domain.Assignment{
			assign(10, domain.KindGuide, 7, 1),
			assign(20, domain.KindEscort, 8, 1),
			assign(21, domain.KindEscort, 8, 2),
			assign(30, domain.KindHeadphone, 9, 1),
		},
		Rates: []domain.ResourceRate{
			{Kind: domain.KindEscort, ResourceID: 8, Amount: money("80"), Type: domain.RateFixed},
			{Kind: domain.KindHeadphone, ResourceID: 9, Amount: money("2"), Type: domain.RatePerPerson},
		},
		GuideCosts: GuideCostTables{
			TourCosts: []domain.GuideActivityCost{{ID: 1, TourID: tour, Amount: money("30")}},
			Seasons: []domain.CostSeason{
				{ID: 1, Name: "summer", StartDate: day(2024, time.May, 1), EndDate: day(2024, time.September, 30)},
			},
			SeasonalCosts: []domain.SeasonalCost{{TourID: tour, SeasonID: 1, Amount: money("50")}},
		},
		Vouchers: []domain.Voucher{
			voucherOn(500, 1, "Colosseum Entry", ticket("Adult", 6, "90"), ticket("Reduced", 2, "30")),
		},
		ProductSources: []domain.ProductSource{{ProductName: "colosseum entry ", Source: domain.SourceB2B}},
	}
}

func TestCompute_SingleSlotScenario(t *testing.T) {
	result := Compute(singleDaySnapshot(), domain.PricingPolicy{})

	require.Len(t, result.Days, 1)
	s := findSlot(t, result, 1)

	assert.Equal(t, 2, s.BookingCount)
	assert.Equal(t, 8, s.TotalParticipants)
	assert.Equal(t, map[string]int{"Adult": 7, "Child": 1}, s.Participants)
	assert.Equal(t, 20, s.AvailabilityLeft)

	assertMoney(t, "400", s.Costs.Revenue)
	assertMoney(t, "50", s.Costs.GuideCost)
	assertMoney(t, "40", s.Costs.EscortCost)
	assertMoney(t, "16", s.Costs.HeadphoneCost)
	assertMoney(t, "0", s.Costs.PrintingCost)
	assertMoney(t, "120", s.Costs.VoucherCost)
	assertMoney(t, "226", s.Costs.TotalCost)
	assertMoney(t, "174", s.Costs.NetProfit)

	assert.Equal(t, map[string]TicketCounts{"Entry": {B2B: 8}}, s.Tickets)
	assert.Equal(t, []domain.ResourceRef{{ID: 7, Name: "guide-7"}}, s.Guides)
	assert.Equal(t, []domain.ResourceRef{{ID: 8, Name: "escort-8"}}, s.Escorts)
	assert.Equal(t, []string{"Adult", "Child"}, result.Categories)
	assert.Equal(t, []string{"Entry"}, result.TicketKinds)
}

func TestCompute_CostInvariantsHold(t *testing.T) {
	result := Compute(singleDaySnapshot(), domain.PricingPolicy{})

	for _, d := range result.Days {
		sum := zeroCosts()
		for _, s := range d.Slots {
			c := s.Costs
			assert.True(t, c.TotalCost.Equal(c.GuideCost.Add(c.EscortCost).Add(c.HeadphoneCost).Add(c.PrintingCost).Add(c.VoucherCost)))
			assert.True(t, c.NetProfit.Equal(c.Revenue.Sub(c.TotalCost)))
			sum = sum.Add(c)
		}
		assert.True(t, sum.TotalCost.Equal(d.Costs.TotalCost))
		assert.True(t, sum.NetProfit.Equal(d.Costs.NetProfit))
		assert.True(t, sum.Revenue.Equal(d.Costs.Revenue))
	}

	assertMoney(t, "500", result.Totals.Revenue)
	// второй слот: только половина сопровождающего
	assertMoney(t, "266", result.Totals.TotalCost)
}

func TestCompute_EscortSplitAcrossQualifyingSlots(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID: tour,
		Slots: []domain.AvailabilitySlot{
			slot(1, june1, "09:00", 10, domain.SlotAvailable),
			slot(2, june1, "12:00", 10, domain.SlotAvailable),
			slot(3, june1, "16:00", 10, domain.SlotAvailable),
		},
		Bookings: []domain.Booking{
			booking(1, 101, at(june1, "09:00"), "10", adults(1)),
			booking(2, 102, at(june1, "12:00"), "10", adults(3)),
		},
		Assignments: []domain.Assignment{
			assign(1, domain.KindEscort, 4, 1),
			assign(2, domain.KindEscort, 4, 2),
			assign(3, domain.KindEscort, 4, 3),
		},
		Rates: []domain.ResourceRate{{Kind: domain.KindEscort, ResourceID: 4, Amount: money("90"), Type: domain.RateFixed}},
	}

	result := Compute(in, domain.PricingPolicy{})

	assertMoney(t, "45", findSlot(t, result, 1).Costs.EscortCost)
	assertMoney(t, "45", findSlot(t, result, 2).Costs.EscortCost)
	// слот без участников не получает стоимость и не увеличивает делитель
	empty := findSlot(t, result, 3)
	assertMoney(t, "0", empty.Costs.EscortCost)
	assert.Len(t, empty.Escorts, 1)
}

func TestCompute_EscortOverrideIsDividedToo(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID: tour,
		Slots: []domain.AvailabilitySlot{
			slot(1, june1, "09:00", 10, domain.SlotAvailable),
			slot(2, june1, "12:00", 10, domain.SlotAvailable),
		},
		Bookings: []domain.Booking{
			booking(1, 101, at(june1, "09:00"), "10", adults(1)),
			booking(2, 102, at(june1, "12:00"), "10", adults(1)),
		},
		Assignments: []domain.Assignment{
			assign(1, domain.KindEscort, 4, 1),
			assign(2, domain.KindEscort, 4, 2),
		},
		Rates:     []domain.ResourceRate{{Kind: domain.KindEscort, ResourceID: 4, Amount: money("90"), Type: domain.RateFixed}},
		Overrides: []domain.CostOverride{{ID: 1, Kind: domain.KindEscort, AssignmentID: 2, Amount: money("100")}},
	}

	result := Compute(in, domain.PricingPolicy{})

	assertMoney(t, "45", findSlot(t, result, 1).Costs.EscortCost)
	assertMoney(t, "50", findSlot(t, result, 2).Costs.EscortCost)
}

func TestCompute_DuplicateEscortAssignmentChargedOnce(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID:   tour,
		Slots:    []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
		Bookings: []domain.Booking{booking(1, 101, at(june1, "09:00"), "10", adults(1))},
		Assignments: []domain.Assignment{
			assign(1, domain.KindEscort, 4, 1),
			assign(2, domain.KindEscort, 4, 1),
		},
		Rates: []domain.ResourceRate{{Kind: domain.KindEscort, ResourceID: 4, Amount: money("90"), Type: domain.RateFixed}},
	}

	s := findSlot(t, Compute(in, domain.PricingPolicy{}), 1)

	assertMoney(t, "90", s.Costs.EscortCost)
}

func TestCompute_HeadphoneAndPrintingCosts(t *testing.T) {
	june1 := day(2024, time.June, 1)

	tests := []struct {
		name          string
		bookings      []domain.Booking
		rates         []domain.ResourceRate
		overrides     []domain.CostOverride
		wantHeadphone string
		wantPrinting  string
	}{
		{
			name:     "per person rate multiplied by participants",
			bookings: []domain.Booking{booking(1, 101, at(june1, "09:00"), "10", adults(3), children(1))},
			rates: []domain.ResourceRate{
				{Kind: domain.KindHeadphone, ResourceID: 9, Amount: money("2.5"), Type: domain.RatePerPerson},
				{Kind: domain.KindPrinting, ResourceID: 11, Amount: money("1"), Type: domain.RatePerPerson},
			},
			wantHeadphone: "10",
			wantPrinting:  "4",
		},
		{
			name:     "fixed rate taken as is",
			bookings: []domain.Booking{booking(1, 101, at(june1, "09:00"), "10", adults(3))},
			rates: []domain.ResourceRate{
				{Kind: domain.KindHeadphone, ResourceID: 9, Amount: money("15"), Type: domain.RateFixed},
				{Kind: domain.KindPrinting, ResourceID: 11, Amount: money("7"), Type: domain.RateFixed},
			},
			wantHeadphone: "15",
			wantPrinting:  "7",
		},
		{
			name:     "override wins over rate",
			bookings: []domain.Booking{booking(1, 101, at(june1, "09:00"), "10", adults(3))},
			rates: []domain.ResourceRate{
				{Kind: domain.KindHeadphone, ResourceID: 9, Amount: money("2"), Type: domain.RatePerPerson},
				{Kind: domain.KindPrinting, ResourceID: 11, Amount: money("1"), Type: domain.RatePerPerson},
			},
			overrides: []domain.CostOverride{
				{ID: 1, Kind: domain.KindHeadphone, AssignmentID: 30, Amount: money("12")},
				{ID: 2, Kind: domain.KindPrinting, AssignmentID: 40, Amount: money("5")},
			},
			wantHeadphone: "12",
			wantPrinting:  "5",
		},
		{
			name:          "no rate means zero",
			bookings:      []domain.Booking{booking(1, 101, at(june1, "09:00"), "10", adults(3))},
			wantHeadphone: "0",
			wantPrinting:  "0",
		},
		{
			name: "slot without participants costs nothing even with override",
			rates: []domain.ResourceRate{
				{Kind: domain.KindHeadphone, ResourceID: 9, Amount: money("15"), Type: domain.RateFixed},
			},
			overrides: []domain.CostOverride{
				{ID: 1, Kind: domain.KindHeadphone, AssignmentID: 30, Amount: money("12")},
				{ID: 2, Kind: domain.KindPrinting, AssignmentID: 40, Amount: money("5")},
			},
			wantHeadphone: "0",
			wantPrinting:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Snapshot{
				TourID:   tour,
				Slots:    []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
				Bookings: tt.bookings,
				Assignments: []domain.Assignment{
					assign(30, domain.KindHeadphone, 9, 1),
					assign(40, domain.KindPrinting, 11, 1),
				},
				Rates:     tt.rates,
				Overrides: tt.overrides,
			}

			s := findSlot(t, Compute(in, domain.PricingPolicy{}), 1)

			assertMoney(t, tt.wantHeadphone, s.Costs.HeadphoneCost)
			assertMoney(t, tt.wantPrinting, s.Costs.PrintingCost)
			assert.True(t, s.Costs.TotalCost.Equal(s.Costs.HeadphoneCost.Add(s.Costs.PrintingCost)))
		})
	}
}

func TestCompute_CancelledBookingNeverCounts(t *testing.T) {
	june1 := day(2024, time.June, 1)
	cancelled := booking(2, 102, at(june1, "09:00"), "999", adults(40))
	cancelled.Status = domain.BookingCancelled

	in := Snapshot{
		TourID:   tour,
		Slots:    []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
		Bookings: []domain.Booking{booking(1, 101, at(june1, "09:00"), "20", adults(2)), cancelled},
	}

	s := findSlot(t, Compute(in, domain.PricingPolicy{}), 1)

	assert.Equal(t, 1, s.BookingCount)
	assert.Equal(t, 2, s.TotalParticipants)
	assertMoney(t, "20", s.Costs.Revenue)
}

func TestCompute_LatestBookingVersionWins(t *testing.T) {
	june1 := day(2024, time.June, 1)
	first := booking(1, 101, at(june1, "09:00"), "100", adults(4))
	second := booking(2, 101, at(june1, "09:00"), "60", adults(2))
	second.CreatedAt = first.CreatedAt.Add(time.Hour)

	in := Snapshot{
		TourID:   tour,
		Slots:    []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
		Bookings: []domain.Booking{second, first},
	}

	s := findSlot(t, Compute(in, domain.PricingPolicy{}), 1)

	assert.Equal(t, 1, s.BookingCount)
	assert.Equal(t, 2, s.TotalParticipants)
	assertMoney(t, "60", s.Costs.Revenue)
}

func TestCompute_PricingPolicy(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID: tour,
		Slots:  []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
		Bookings: []domain.Booking{
			booking(1, 101, at(june1, "09:00"), "50", adults(3), children(2),
				domain.Participant{PricingCategoryID: 9, Category: "Guide", Quantity: 1}),
		},
		Assignments: []domain.Assignment{assign(1, domain.KindHeadphone, 5, 1)},
		Rates:       []domain.ResourceRate{{Kind: domain.KindHeadphone, ResourceID: 5, Amount: money("1.5"), Type: domain.RatePerPerson}},
	}

	t.Run("exclude by name", func(t *testing.T) {
		policy := domain.PricingPolicy{ExcludeByName: map[string][]string{tour: {"guide"}}}
		result := Compute(in, policy)
		s := findSlot(t, result, 1)

		assert.Equal(t, 5, s.TotalParticipants)
		assertMoney(t, "7.5", s.Costs.HeadphoneCost)
		assert.Equal(t, []string{"Adult", "Child"}, result.Categories)
	})

	t.Run("allow only beats exclude", func(t *testing.T) {
		policy := domain.PricingPolicy{
			ExcludeByName: map[string][]string{tour: {"Adult"}},
			AllowOnlyIDs:  map[string][]int64{tour: {1}},
		}
		result := Compute(in, policy)
		s := findSlot(t, result, 1)

		assert.Equal(t, 3, s.TotalParticipants)
		assert.Equal(t, []string{"Adult"}, result.Categories)
		// выручка не зависит от политики
		assertMoney(t, "50", s.Costs.Revenue)
	})
}

func TestCompute_OrphanBookingBecomesSoldOutSlot(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID:   tour,
		Slots:    []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotAvailable)},
		Bookings: []domain.Booking{booking(1, 101, at(june1, "11:30"), "75", adults(3))},
		Assignments: []domain.Assignment{
			assign(1, domain.KindGuide, 7, 1),
		},
		GuideCosts: GuideCostTables{TourCosts: []domain.GuideActivityCost{{ID: 1, TourID: tour, Amount: money("40")}}},
	}

	result := Compute(in, domain.PricingPolicy{})
	require.Len(t, result.Days, 1)
	require.Len(t, result.Days[0].Slots, 2)

	orphan := result.Days[0].Slots[1]
	assert.Equal(t, int64(0), orphan.SlotID)
	assert.Equal(t, types.MustTimeString("11:30"), orphan.Time)
	assert.Equal(t, domain.SlotSoldOut, orphan.Status)
	assert.Equal(t, 3, orphan.TotalParticipants)
	assertMoney(t, "75", orphan.Costs.Revenue)
	assertMoney(t, "0", orphan.Costs.TotalCost)
	assertMoney(t, "75", orphan.Costs.NetProfit)

	// день доступен, т.к. опубликованный слот AVAILABLE
	assert.Equal(t, domain.SlotAvailable, result.Days[0].Status)
}

func TestCompute_PlannedSlots(t *testing.T) {
	june1 := day(2024, time.June, 1)
	june2 := day(2024, time.June, 2)
	in := Snapshot{
		TourID:    tour,
		StartDate: june1,
		EndDate:   june2,
		Slots:     []domain.AvailabilitySlot{slot(1, june1, "09:00", 10, domain.SlotSoldOut)},
		PlannedSlots: []domain.PlannedSlot{
			{ID: 70, TourID: tour, Date: june1, Time: types.MustTimeString("09:00"), Vacancy: 30},
			{ID: 71, TourID: tour, Date: june1, Time: types.MustTimeString("15:00"), Vacancy: 25},
			{ID: 72, TourID: tour, Date: june2, Time: types.MustTimeString("10:00"), Vacancy: 40},
		},
		Vouchers: []domain.Voucher{
			{ID: 900, PlannedAvailabilityID: ptr.Ptr(int64(72)), IsPlaceholder: true, PlaceholderTicketCount: 12, Source: domain.SourceB2B},
			{ID: 901, PlannedAvailabilityID: ptr.Ptr(int64(72)), CategoryName: "Arena", Tickets: []domain.VoucherTicket{ticket("Adult", 4, "64")}},
		},
	}

	result := Compute(in, domain.PricingPolicy{})
	require.Len(t, result.Days, 2)

	first := result.Days[0]
	require.Len(t, first.Slots, 2, "planned 09:00 collides with the published slot")
	assert.False(t, first.Slots[0].IsPlanned)
	assert.True(t, first.Slots[1].IsPlanned)
	assert.Equal(t, int64(71), first.Slots[1].PlannedID)
	assert.Equal(t, 35, first.AvailabilityLeft)
	assert.Equal(t, domain.SlotSoldOut, first.Status)

	second := result.Days[1]
	require.Len(t, second.Slots, 1)
	planned := second.Slots[0]
	assert.Equal(t, domain.SlotPlanned, planned.Status)
	assert.Equal(t, domain.SlotPlanned, second.Status)
	assert.Equal(t, 40, planned.AvailabilityLeft)
	assert.Equal(t, map[string]TicketCounts{
		domain.UncategorizedVoucher: {B2B: 12},
		"Arena":                     {B2C: 4},
	}, planned.Tickets)
	assertMoney(t, "64", planned.Costs.VoucherCost)
	assertMoney(t, "-64", planned.Costs.NetProfit)
	assertMoney(t, "0", planned.Costs.Revenue)
}

func TestCompute_DayGroupsUnionResources(t *testing.T) {
	june1 := day(2024, time.June, 1)
	in := Snapshot{
		TourID: tour,
		Slots: []domain.AvailabilitySlot{
			slot(2, june1, "14:00", 5, domain.SlotClosed),
			slot(1, june1, "09:00", 5, domain.SlotClosed),
		},
		Assignments: []domain.Assignment{
			assign(1, domain.KindGuide, 7, 1),
			assign(2, domain.KindGuide, 7, 2),
			assign(3, domain.KindGuide, 6, 2),
			assign(4, domain.KindEscort, 8, 1),
			assign(5, domain.KindEscort, 8, 2),
		},
	}

	result := Compute(in, domain.PricingPolicy{})
	require.Len(t, result.Days, 1)
	d := result.Days[0]

	assert.Equal(t, []domain.ResourceRef{{ID: 7, Name: "guide-7"}, {ID: 6, Name: "guide-6"}}, d.Guides)
	assert.Len(t, d.Escorts, 1)
	assert.Equal(t, int64(1), d.Slots[0].SlotID)
	assert.Equal(t, domain.SlotClosed, d.Status)
	assert.Equal(t, 10, d.AvailabilityLeft)
}

func TestCompute_IgnoresOtherToursAndOutOfRangeRows(t *testing.T) {
	june1 := day(2024, time.June, 1)
	other := slot(5, june1, "09:00", 10, domain.SlotAvailable)
	other.TourID = "vatican"
	foreign := booking(9, 909, at(june1, "09:00"), "500", adults(10))
	foreign.TourID = "vatican"

	in := Snapshot{
		TourID:    tour,
		StartDate: june1,
		EndDate:   june1,
		Slots: []domain.AvailabilitySlot{
			slot(1, june1, "09:00", 10, domain.SlotAvailable),
			slot(2, day(2024, time.June, 3), "09:00", 10, domain.SlotAvailable),
			other,
		},
		Bookings: []domain.Booking{foreign},
	}

	result := Compute(in, domain.PricingPolicy{})

	assert.Equal(t, 1, result.SlotCount())
	assertMoney(t, "0", result.Totals.Revenue)
}

func TestDayStatus(t *testing.T) {
	tests := []struct {
		name  string
		slots []SlotSummary
		want  domain.SlotStatus
	}{
		{name: "any available", slots: []SlotSummary{{Status: domain.SlotSoldOut}, {Status: domain.SlotAvailable}}, want: domain.SlotAvailable},
		{name: "limited over sold out", slots: []SlotSummary{{Status: domain.SlotSoldOut}, {Status: domain.SlotLimited}}, want: domain.SlotLimited},
		{name: "sold out over closed", slots: []SlotSummary{{Status: domain.SlotClosed}, {Status: domain.SlotSoldOut}}, want: domain.SlotSoldOut},
		{name: "all closed", slots: []SlotSummary{{Status: domain.SlotClosed}}, want: domain.SlotClosed},
		{name: "planned ignored", slots: []SlotSummary{{Status: domain.SlotClosed}, {Status: domain.SlotAvailable, IsPlanned: true}}, want: domain.SlotClosed},
		{name: "only planned", slots: []SlotSummary{{Status: domain.SlotAvailable, IsPlanned: true}}, want: domain.SlotPlanned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayStatus(tt.slots))
		})
	}
}

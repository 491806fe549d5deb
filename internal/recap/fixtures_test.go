package recap

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/ptr"
	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

const tour = "colosseum-underground"

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(date time.Time, hhmm string) time.Time {
	tm := types.MustTimeString(hhmm)
	return date.Add(time.Duration(tm.Minutes()) * time.Minute)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertMoney(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, money(expected).StringFixed(2), actual.StringFixed(2), msgAndArgs...)
}

func slot(id int64, date time.Time, hhmm string, vacancy int, status domain.SlotStatus) domain.AvailabilitySlot {
	return domain.AvailabilitySlot{
		ID:               id,
		TourID:           tour,
		Date:             date,
		Time:             types.MustTimeString(hhmm),
		VacancyAvailable: vacancy,
		Status:           status,
	}
}

func booking(id, activityID int64, start time.Time, net string, participants ...domain.Participant) domain.Booking {
	b := domain.Booking{
		ID:                id,
		BookingID:         id * 10,
		ActivityBookingID: activityID,
		TourID:            tour,
		StartDateTime:     start,
		Status:            domain.BookingConfirmed,
		CreatedAt:         start.Add(-48 * time.Hour),
		Participants:      participants,
	}
	if net != "" {
		b.NetPrice = decimal.NewNullDecimal(money(net))
	}
	return b
}

func adults(n int) domain.Participant {
	return domain.Participant{PricingCategoryID: 1, Category: "Adult", Quantity: n}
}

func children(n int) domain.Participant {
	return domain.Participant{PricingCategoryID: 2, Category: "Child", Quantity: n}
}

func assign(id int64, kind domain.AssignmentKind, resourceID, slotID int64) domain.Assignment {
	return domain.Assignment{
		ID:             id,
		Kind:           kind,
		ResourceID:     resourceID,
		ResourceName:   string(kind) + "-" + decimal.NewFromInt(resourceID).String(),
		AvailabilityID: slotID,
	}
}

func voucherOn(id, slotID int64, product string, tickets ...domain.VoucherTicket) domain.Voucher {
	return domain.Voucher{
		ID:             id,
		AvailabilityID: ptr.Ptr(slotID),
		CategoryName:   "Entry",
		ProductName:    product,
		Source:         domain.SourceB2C,
		Tickets:        tickets,
	}
}

func ticket(kind string, pax int, price string) domain.VoucherTicket {
	return domain.VoucherTicket{TicketType: kind, Pax: pax, Price: money(price)}
}

func findSlot(t *testing.T, r *Result, slotID int64) SlotSummary {
	t.Helper()
	for _, d := range r.Days {
		for _, s := range d.Slots {
			if s.SlotID == slotID && !s.IsPlanned {
				return s
			}
		}
	}
	t.Fatalf("slot %d not found", slotID)
	return SlotSummary{}
}

package recap

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// Costs финансовые показатели слота или дня
// Инвариант: TotalCost = Guide + Escort + Headphone + Printing + Voucher, NetProfit = Revenue - TotalCost
type Costs struct {
	Revenue       decimal.Decimal `json:"revenue"`
	GuideCost     decimal.Decimal `json:"guideCost"`
	EscortCost    decimal.Decimal `json:"escortCost"`
	HeadphoneCost decimal.Decimal `json:"headphoneCost"`
	PrintingCost  decimal.Decimal `json:"printingCost"`
	VoucherCost   decimal.Decimal `json:"voucherCost"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	NetProfit     decimal.Decimal `json:"netProfit"`
}

// round округляет компоненты до денежной точности и пересчитывает итоги
func (c Costs) round() Costs {
	c.Revenue = c.Revenue.Round(domain.MoneyPlaces)
	c.GuideCost = c.GuideCost.Round(domain.MoneyPlaces)
	c.EscortCost = c.EscortCost.Round(domain.MoneyPlaces)
	c.HeadphoneCost = c.HeadphoneCost.Round(domain.MoneyPlaces)
	c.PrintingCost = c.PrintingCost.Round(domain.MoneyPlaces)
	c.VoucherCost = c.VoucherCost.Round(domain.MoneyPlaces)
	return c.finalize()
}

func (c Costs) finalize() Costs {
	c.TotalCost = c.GuideCost.Add(c.EscortCost).Add(c.HeadphoneCost).Add(c.PrintingCost).Add(c.VoucherCost)
	c.NetProfit = c.Revenue.Sub(c.TotalCost)
	return c
}

// Add складывает показатели покомпонентно
func (c Costs) Add(o Costs) Costs {
	return Costs{
		Revenue:       c.Revenue.Add(o.Revenue),
		GuideCost:     c.GuideCost.Add(o.GuideCost),
		EscortCost:    c.EscortCost.Add(o.EscortCost),
		HeadphoneCost: c.HeadphoneCost.Add(o.HeadphoneCost),
		PrintingCost:  c.PrintingCost.Add(o.PrintingCost),
		VoucherCost:   c.VoucherCost.Add(o.VoucherCost),
		TotalCost:     c.TotalCost.Add(o.TotalCost),
		NetProfit:     c.NetProfit.Add(o.NetProfit),
	}
}

// TicketCounts количество билетов категории по источникам
type TicketCounts struct {
	B2B int `json:"b2b"`
	B2C int `json:"b2c"`
}

// Total сумма по всем источникам
func (t TicketCounts) Total() int {
	return t.B2B + t.B2C
}

func (t TicketCounts) add(source domain.VoucherSource, n int) TicketCounts {
	if source == domain.SourceB2B {
		t.B2B += n
	} else {
		t.B2C += n
	}
	return t
}

// VoucherSummary ваучер в составе слота
type VoucherSummary struct {
	ID            int64                `json:"id"`
	Category      string               `json:"category"`
	ProductName   string               `json:"productName"`
	Source        domain.VoucherSource `json:"source"`
	IsPlaceholder bool                 `json:"isPlaceholder"`
	Tickets       int                  `json:"tickets"`
	Cost          decimal.Decimal      `json:"cost"`
}

// BookingSummary бронь в составе слота
type BookingSummary struct {
	BookingID         int64           `json:"bookingId"`
	ActivityBookingID int64           `json:"activityBookingId"`
	Participants      int             `json:"participants"`
	Revenue           decimal.Decimal `json:"revenue"`
}

// SlotSummary итоги по одному слоту
// SlotID == 0 у слотов без опубликованной доступности (бронь есть, слота нет) и у запланированных
type SlotSummary struct {
	SlotID            int64                   `json:"slotId"`
	PlannedID         int64                   `json:"plannedId,omitempty"`
	IsPlanned         bool                    `json:"isPlanned"`
	Date              time.Time               `json:"date"`
	Time              types.TimeString        `json:"time"`
	Status            domain.SlotStatus       `json:"status"`
	BookingCount      int                     `json:"bookingCount"`
	Participants      map[string]int          `json:"participants"`
	TotalParticipants int                     `json:"totalParticipants"`
	AvailabilityLeft  int                     `json:"availabilityLeft"`
	Guides            []domain.ResourceRef    `json:"guides"`
	Escorts           []domain.ResourceRef    `json:"escorts"`
	Tickets           map[string]TicketCounts `json:"tickets"`
	Costs             Costs                   `json:"costs"`
	Vouchers          []VoucherSummary        `json:"vouchers"`
	Bookings          []BookingSummary        `json:"bookings"`
}

// DaySummary итоги за день: числовые поля равны сумме по слотам дня
type DaySummary struct {
	Date              time.Time               `json:"date"`
	Status            domain.SlotStatus       `json:"status"`
	BookingCount      int                     `json:"bookingCount"`
	Participants      map[string]int          `json:"participants"`
	TotalParticipants int                     `json:"totalParticipants"`
	AvailabilityLeft  int                     `json:"availabilityLeft"`
	Guides            []domain.ResourceRef    `json:"guides"`
	Escorts           []domain.ResourceRef    `json:"escorts"`
	Tickets           map[string]TicketCounts `json:"tickets"`
	Costs             Costs                   `json:"costs"`
	Vouchers          []VoucherSummary        `json:"vouchers"`
	Bookings          []BookingSummary        `json:"bookings"`
	Slots             []SlotSummary           `json:"slots"`
}

// Result отчет по туру за период
type Result struct {
	TourID       string       `json:"tourId"`
	StartDate    time.Time    `json:"startDate"`
	EndDate      time.Time    `json:"endDate"`
	Categories   []string     `json:"categories"`
	TicketKinds  []string     `json:"ticketKinds"`
	Days         []DaySummary `json:"days"`
	Totals       Costs        `json:"totals"`
	ComputedAt   time.Time    `json:"computedAt"`
	DegradedFrom []string     `json:"degradedFrom,omitempty"`
}

// SlotCount общее количество слотов в отчете
func (r *Result) SlotCount() int {
	n := 0
	for _, day := range r.Days {
		n += len(day.Slots)
	}
	return n
}

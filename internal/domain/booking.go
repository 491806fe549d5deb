package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// BookingStatus статус бронирования
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingPending   BookingStatus = "PENDING"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Booking подтвержденная бронь на слот тура
// Одна запись activity_bookings; при повторном импорте у одного ActivityBookingID может быть несколько записей
type Booking struct {
	ID                int64
	BookingID         int64
	ActivityBookingID int64
	TourID            string
	StartDateTime     time.Time
	NetPrice          decimal.NullDecimal
	TotalPrice        decimal.NullDecimal
	Status            BookingStatus
	CreatedAt         time.Time
	Participants      []Participant
}

// Participant строка категории участников брони
// BookingRowID ссылается на конкретную версию брони (Booking.ID), а не на ActivityBookingID
type Participant struct {
	ID                int64
	BookingRowID      int64
	ActivityBookingID int64
	PricingCategoryID int64
	Category          string
	Quantity          int
}

// IsCancelled true для отмененной брони
func (b *Booking) IsCancelled() bool {
	return b.Status == BookingCancelled
}

// Revenue выручка брони: net price, если есть, иначе total price
func (b *Booking) Revenue() decimal.Decimal {
	if b.NetPrice.Valid {
		return b.NetPrice.Decimal
	}
	if b.TotalPrice.Valid {
		return b.TotalPrice.Decimal
	}
	return decimal.Zero
}

// LocalDate дата начала тура
func (b *Booking) LocalDate() string {
	return b.StartDateTime.Format(DateFormat)
}

// LocalTime время начала тура с точностью до минуты
func (b *Booking) LocalTime() types.TimeString {
	return types.NewTimeString(b.StartDateTime)
}

// SlotKey ключ слота, к которому относится бронь
func (b *Booking) SlotKey() SlotKey {
	return SlotKey{TourID: b.TourID, Date: b.LocalDate(), Time: b.LocalTime()}
}

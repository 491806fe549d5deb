package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// VoucherSource кто купил билеты по ваучеру
type VoucherSource string

const (
	SourceB2B VoucherSource = "b2b"
	SourceB2C VoucherSource = "b2c"
)

// ParseVoucherSource нормализует тег источника; пустое и неизвестное значение - b2c
func ParseVoucherSource(s string) VoucherSource {
	if VoucherSource(strings.ToLower(strings.TrimSpace(s))) == SourceB2B {
		return SourceB2B
	}
	return SourceB2C
}

// UncategorizedVoucher категория ваучера без привязки к справочнику
const UncategorizedVoucher = "uncategorized"

// Voucher загруженный документ с билетами или ручная запись-заглушка
// Привязан к опубликованному слоту (AvailabilityID) или к запланированному (PlannedAvailabilityID)
type Voucher struct {
	ID                     int64
	AvailabilityID         *int64
	PlannedAvailabilityID  *int64
	CategoryID             *int64
	CategoryName           string
	ProductName            string
	IsPlaceholder          bool
	PlaceholderTicketCount int
	Source                 VoucherSource
	Tickets                []VoucherTicket
}

// Category ключ категории для группировки билетов
func (v *Voucher) Category() string {
	if strings.TrimSpace(v.CategoryName) == "" {
		return UncategorizedVoucher
	}
	return v.CategoryName
}

// VoucherTicket строка билета в ваучере
type VoucherTicket struct {
	ID         int64
	VoucherID  int64
	TicketType string
	Pax        int
	Price      decimal.Decimal
}

// IsGuideTicket билеты гидов не сверяются с количеством участников
func (t *VoucherTicket) IsGuideTicket() bool {
	return strings.Contains(strings.ToLower(t.TicketType), "guide")
}

// ProductSource соответствие названия продукта источнику продаж
type ProductSource struct {
	ProductName string
	Source      VoucherSource
}

package recap

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// ProductSourceMap источник продаж по названию продукта (без учета регистра и пробелов)
type ProductSourceMap map[string]domain.VoucherSource

// NewProductSourceMap строит соответствие; при дубликатах остается первая запись
func NewProductSourceMap(sources []domain.ProductSource) ProductSourceMap {
	m := make(ProductSourceMap, len(sources))
	for _, s := range sources {
		key := normalizeProductName(s.ProductName)
		if key == "" {
			continue
		}
		if _, ok := m[key]; ok {
			continue
		}
		m[key] = s.Source
	}
	return m
}

// Lookup источник продукта
func (m ProductSourceMap) Lookup(productName string) (domain.VoucherSource, bool) {
	source, ok := m[normalizeProductName(productName)]
	return source, ok
}

func normalizeProductName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SummarizeVoucher считает билеты и стоимость ваучера
//
// Заглушка: количество билетов введено вручную, стоимость нулевая, источник - собственный тег.
// Загруженный ваучер: билеты без "guide" в типе с учетом pax, стоимость - сумма цен всех билетов,
// источник - по названию продукта, иначе собственный тег
func SummarizeVoucher(v *domain.Voucher, sources ProductSourceMap) VoucherSummary {
	summary := VoucherSummary{
		ID:            v.ID,
		Category:      v.Category(),
		ProductName:   v.ProductName,
		IsPlaceholder: v.IsPlaceholder,
		Cost:          decimal.Zero,
	}

	if v.IsPlaceholder {
		summary.Source = domain.ParseVoucherSource(string(v.Source))
		summary.Tickets = v.PlaceholderTicketCount
		return summary
	}

	summary.Source = domain.ParseVoucherSource(string(v.Source))
	if source, ok := sources.Lookup(v.ProductName); ok {
		summary.Source = source
	}

	for i := range v.Tickets {
		ticket := &v.Tickets[i]
		summary.Cost = summary.Cost.Add(ticket.Price)
		if ticket.IsGuideTicket() {
			continue
		}
		summary.Tickets += ticket.Pax
	}

	return summary
}

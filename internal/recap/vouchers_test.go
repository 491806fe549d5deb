package recap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

func TestSummarizeVoucher(t *testing.T) {
	sources := NewProductSourceMap([]domain.ProductSource{
		{ProductName: "Arena Floor", Source: domain.SourceB2B},
		{ProductName: "  ", Source: domain.SourceB2B},
	})

	t.Run("real voucher skips guide tickets in count but not in cost", func(t *testing.T) {
		v := voucherOn(1, 1, "ARENA FLOOR",
			ticket("Adult", 3, "45"),
			ticket("Tour Guide", 1, "0"),
			ticket("GUIDE licence", 1, "5.50"),
			ticket("Reduced", 2, "20"))

		got := SummarizeVoucher(&v, sources)

		assert.Equal(t, 5, got.Tickets)
		assertMoney(t, "70.50", got.Cost)
		assert.Equal(t, domain.SourceB2B, got.Source)
		assert.Equal(t, "Entry", got.Category)
	})

	t.Run("real voucher without mapping keeps own tag", func(t *testing.T) {
		v := voucherOn(2, 1, "Night Tour", ticket("Adult", 2, "30"))
		v.Source = domain.SourceB2B

		got := SummarizeVoucher(&v, sources)

		assert.Equal(t, domain.SourceB2B, got.Source)
	})

	t.Run("placeholder uses manual count and explicit source", func(t *testing.T) {
		v := domain.Voucher{
			ID:                     3,
			ProductName:            "Arena Floor",
			IsPlaceholder:          true,
			PlaceholderTicketCount: 9,
			Source:                 domain.SourceB2C,
			Tickets:                []domain.VoucherTicket{ticket("Adult", 4, "100")},
		}

		got := SummarizeVoucher(&v, sources)

		assert.Equal(t, 9, got.Tickets)
		assert.True(t, got.Cost.IsZero())
		assert.Equal(t, domain.SourceB2C, got.Source)
		assert.Equal(t, domain.UncategorizedVoucher, got.Category)
	})
}

package recap

import (
	"sort"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// DedupBookings оставляет по одной записи на ActivityBookingID - с самым поздним CreatedAt
// (при равенстве - с большим ID), после чего отбрасывает отмененные
// Порядок первого появления ActivityBookingID сохраняется
func DedupBookings(bookings []domain.Booking) []domain.Booking {
	positions := make(map[int64]int, len(bookings))
	latest := make([]domain.Booking, 0, len(bookings))

	for _, b := range bookings {
		pos, ok := positions[b.ActivityBookingID]
		if !ok {
			positions[b.ActivityBookingID] = len(latest)
			latest = append(latest, b)
			continue
		}

		current := latest[pos]
		if b.CreatedAt.After(current.CreatedAt) ||
			(b.CreatedAt.Equal(current.CreatedAt) && b.ID > current.ID) {
			latest[pos] = b
		}
	}

	out := make([]domain.Booking, 0, len(latest))
	for _, b := range latest {
		if b.IsCancelled() {
			continue
		}
		out = append(out, b)
	}

	return out
}

// CountParticipants считает участников брони по категориям с учетом политики тура
func CountParticipants(b *domain.Booking, policy domain.PricingPolicy) (map[string]int, int) {
	byCategory := make(map[string]int)
	total := 0

	for _, p := range b.Participants {
		if p.Quantity <= 0 || !policy.Counts(b.TourID, p) {
			continue
		}
		byCategory[p.Category] += p.Quantity
		total += p.Quantity
	}

	return byCategory, total
}

// DiscoverCategories список категорий участников, встречающихся в бронях тура,
// с учетом той же политики исключений. Отсортирован по названию
func DiscoverCategories(bookings []domain.Booking, tourID string, policy domain.PricingPolicy) []string {
	seen := make(map[string]struct{})

	for _, b := range bookings {
		if b.TourID != tourID || b.IsCancelled() {
			continue
		}
		for _, p := range b.Participants {
			if p.Quantity <= 0 || !policy.Counts(tourID, p) {
				continue
			}
			seen[p.Category] = struct{}{}
		}
	}

	categories := make([]string, 0, len(seen))
	for c := range seen {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return categories
}

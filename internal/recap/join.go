package recap

import "github.com/m04kA/SMC-TourRecapService/internal/domain"

// SlotIndex соединение слотов по составному ключу (tourID, date, time) и по ID слота
type SlotIndex struct {
	byKey map[domain.SlotKey]int64
	byID  map[int64]domain.AvailabilitySlot
}

// NewSlotIndex строит индекс. При дубликатах ключа побеждает слот с меньшим ID
func NewSlotIndex(slots []domain.AvailabilitySlot) *SlotIndex {
	idx := &SlotIndex{
		byKey: make(map[domain.SlotKey]int64, len(slots)),
		byID:  make(map[int64]domain.AvailabilitySlot, len(slots)),
	}

	for _, slot := range slots {
		idx.byID[slot.ID] = slot

		key := domain.NewSlotKey(slot.TourID, slot.Date, slot.Time)
		if existing, ok := idx.byKey[key]; ok && existing < slot.ID {
			continue
		}
		idx.byKey[key] = slot.ID
	}

	return idx
}

// Lookup ID слота по ключу
func (i *SlotIndex) Lookup(key domain.SlotKey) (int64, bool) {
	id, ok := i.byKey[key]
	return id, ok
}

// MatchBooking ID слота, к которому относится бронь
func (i *SlotIndex) MatchBooking(b *domain.Booking) (int64, bool) {
	return i.Lookup(b.SlotKey())
}

// Slot слот по ID
func (i *SlotIndex) Slot(id int64) (domain.AvailabilitySlot, bool) {
	slot, ok := i.byID[id]
	return slot, ok
}

// Len количество слотов в индексе
func (i *SlotIndex) Len() int {
	return len(i.byID)
}

// groupBy группирует элементы по ключу с сохранением исходного порядка внутри группы
func groupBy[K comparable, V any](items []V, key func(V) K) map[K][]V {
	out := make(map[K][]V)
	for _, item := range items {
		k := key(item)
		out[k] = append(out[k], item)
	}
	return out
}

// indexBy строит map по ключу; при дубликатах остается первый элемент
func indexBy[K comparable, V any](items []V, key func(V) K) map[K]V {
	out := make(map[K]V, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := out[k]; ok {
			continue
		}
		out[k] = item
	}
	return out
}

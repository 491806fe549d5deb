package recap

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// Compute строит отчет по уже загруженным данным. Функция чистая: не ходит в сеть и не читает часы,
// ComputedAt и DegradedFrom заполняет вызывающий код
func Compute(in Snapshot, policy domain.PricingPolicy) *Result {
	// 1. Индексы слотов и брони тура в периоде
	index := NewSlotIndex(tourSlots(in))
	bookings := make([]domain.Booking, 0, len(in.Bookings))
	for _, b := range DedupBookings(in.Bookings) {
		if b.TourID != in.TourID || !in.inRange(b.StartDateTime) {
			continue
		}
		bookings = append(bookings, b)
	}

	// 2. Брони по слотам; без опубликованного слота - по ключу
	slotBookings := make(map[int64][]domain.Booking)
	orphanBookings := make(map[domain.SlotKey][]domain.Booking)
	var orphanKeys []domain.SlotKey
	for _, b := range bookings {
		if slotID, ok := index.MatchBooking(&b); ok {
			slotBookings[slotID] = append(slotBookings[slotID], b)
			continue
		}
		key := b.SlotKey()
		if _, ok := orphanBookings[key]; !ok {
			orphanKeys = append(orphanKeys, key)
		}
		orphanBookings[key] = append(orphanBookings[key], b)
	}

	slots := make(map[int64]*SlotSummary, index.Len())
	participants := make(map[int64]int, index.Len())
	for _, slot := range tourSlots(in) {
		if _, ok := slots[slot.ID]; ok {
			continue
		}
		summary := newSlotSummary(slot.Date, slot.Time, slot.Status)
		summary.SlotID = slot.ID
		summary.AvailabilityLeft = slot.VacancyAvailable
		addBookings(summary, slotBookings[slot.ID], policy)
		participants[slot.ID] = summary.TotalParticipants
		slots[slot.ID] = summary
	}

	// 3. Назначения: гиды, сопровождающие, наушники, печать
	p := newPricing(in.Rates, in.Overrides)
	resolver := DefaultGuideCostResolver(p.guideOverrides(), in.GuideCosts)
	secondary := secondaryMembers(in.ServiceGroups)

	byKind := groupBy(in.Assignments, func(a domain.Assignment) domain.AssignmentKind { return a.Kind })
	for _, kind := range domain.AssignmentKinds {
		sort.SliceStable(byKind[kind], func(i, j int) bool { return byKind[kind][i].ID < byKind[kind][j].ID })
	}

	for i := range byKind[domain.KindGuide] {
		a := &byKind[domain.KindGuide][i]
		summary, ok := slots[a.AvailabilityID]
		if !ok {
			continue
		}
		slot, _ := index.Slot(a.AvailabilityID)
		summary.Guides = appendRef(summary.Guides, domain.ResourceRef{ID: a.ResourceID, Name: a.ResourceName})

		if _, skip := secondary[a.ID]; skip {
			continue
		}
		cost, _ := resolver.Resolve(GuideCostQuery{
			AssignmentID: a.ID,
			TourID:       slot.TourID,
			GuideID:      a.ResourceID,
			Date:         slot.Date,
		})
		summary.Costs.GuideCost = summary.Costs.GuideCost.Add(cost)
	}

	escorts := byKind[domain.KindEscort]
	for i := range escorts {
		if summary, ok := slots[escorts[i].AvailabilityID]; ok {
			summary.Escorts = appendRef(summary.Escorts, domain.ResourceRef{ID: escorts[i].ResourceID, Name: escorts[i].ResourceName})
		}
	}
	for slotID, cost := range escortCosts(escorts, index, participants, p) {
		if summary, ok := slots[slotID]; ok {
			summary.Costs.EscortCost = summary.Costs.EscortCost.Add(cost)
		}
	}

	for i := range byKind[domain.KindHeadphone] {
		a := &byKind[domain.KindHeadphone][i]
		if summary, ok := slots[a.AvailabilityID]; ok {
			summary.Costs.HeadphoneCost = summary.Costs.HeadphoneCost.Add(p.unitCost(a, summary.TotalParticipants))
		}
	}
	for i := range byKind[domain.KindPrinting] {
		a := &byKind[domain.KindPrinting][i]
		if summary, ok := slots[a.AvailabilityID]; ok {
			summary.Costs.PrintingCost = summary.Costs.PrintingCost.Add(p.unitCost(a, summary.TotalParticipants))
		}
	}

	// 4. Ваучеры опубликованных и запланированных слотов
	sources := NewProductSourceMap(in.ProductSources)
	ticketKinds := make(map[string]struct{})
	plannedVouchers := make(map[int64][]VoucherSummary)
	for i := range in.Vouchers {
		v := &in.Vouchers[i]
		vs := SummarizeVoucher(v, sources)
		switch {
		case v.AvailabilityID != nil:
			summary, ok := slots[*v.AvailabilityID]
			if !ok {
				continue
			}
			addVoucher(summary, vs)
		case v.PlannedAvailabilityID != nil:
			plannedVouchers[*v.PlannedAvailabilityID] = append(plannedVouchers[*v.PlannedAvailabilityID], vs)
		default:
			continue
		}
		ticketKinds[vs.Category] = struct{}{}
	}

	// 5. Итоги по слотам и брони без слота
	all := make([]SlotSummary, 0, len(slots)+len(orphanKeys)+len(in.PlannedSlots))
	for _, summary := range slots {
		summary.Costs = summary.Costs.round()
		all = append(all, *summary)
	}
	for _, key := range orphanKeys {
		group := orphanBookings[key]
		summary := newSlotSummary(group[0].StartDateTime, key.Time, domain.SlotSoldOut)
		addBookings(summary, group, policy)
		summary.Costs = summary.Costs.round()
		all = append(all, *summary)
	}

	// 6. Запланированные слоты: только если в этот день нет опубликованного слота на то же время
	published := make(map[domain.SlotKey]struct{}, len(all))
	for _, s := range all {
		published[domain.NewSlotKey(in.TourID, s.Date, s.Time)] = struct{}{}
	}
	for _, planned := range in.PlannedSlots {
		if planned.TourID != "" && planned.TourID != in.TourID {
			continue
		}
		if !in.inRange(planned.Date) {
			continue
		}
		if _, ok := published[domain.NewSlotKey(in.TourID, planned.Date, planned.Time)]; ok {
			continue
		}

		status := planned.Status
		if status == "" {
			status = domain.SlotPlanned
		}
		summary := newSlotSummary(planned.Date, planned.Time, status)
		summary.PlannedID = planned.ID
		summary.IsPlanned = true
		summary.AvailabilityLeft = planned.Vacancy
		for _, vs := range plannedVouchers[planned.ID] {
			addVoucher(summary, vs)
		}
		summary.Costs = summary.Costs.round()
		all = append(all, *summary)
	}

	// 7. Группировка по дням
	days := groupDays(all)

	result := &Result{
		TourID:      in.TourID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Categories:  DiscoverCategories(bookings, in.TourID, policy),
		TicketKinds: sortedKeys(ticketKinds),
		Days:        days,
		Totals:      zeroCosts(),
	}
	for _, day := range days {
		result.Totals = result.Totals.Add(day.Costs)
	}

	return result
}

// tourSlots слоты тура в периоде
func tourSlots(in Snapshot) []domain.AvailabilitySlot {
	out := make([]domain.AvailabilitySlot, 0, len(in.Slots))
	for _, s := range in.Slots {
		if s.TourID != in.TourID || !in.inRange(s.Date) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func zeroCosts() Costs {
	return Costs{
		Revenue:       decimal.Zero,
		GuideCost:     decimal.Zero,
		EscortCost:    decimal.Zero,
		HeadphoneCost: decimal.Zero,
		PrintingCost:  decimal.Zero,
		VoucherCost:   decimal.Zero,
		TotalCost:     decimal.Zero,
		NetProfit:     decimal.Zero,
	}
}

// dayOf дата без времени
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newSlotSummary(date time.Time, t types.TimeString, status domain.SlotStatus) *SlotSummary {
	return &SlotSummary{
		Date:         dayOf(date),
		Time:         t,
		Status:       status,
		Participants: make(map[string]int),
		Guides:       []domain.ResourceRef{},
		Escorts:      []domain.ResourceRef{},
		Tickets:      make(map[string]TicketCounts),
		Costs:        zeroCosts(),
		Vouchers:     []VoucherSummary{},
		Bookings:     []BookingSummary{},
	}
}

func addBookings(s *SlotSummary, bookings []domain.Booking, policy domain.PricingPolicy) {
	for i := range bookings {
		b := &bookings[i]
		byCategory, total := CountParticipants(b, policy)
		for category, n := range byCategory {
			s.Participants[category] += n
		}
		s.TotalParticipants += total
		s.BookingCount++

		revenue := b.Revenue()
		s.Costs.Revenue = s.Costs.Revenue.Add(revenue)
		s.Bookings = append(s.Bookings, BookingSummary{
			BookingID:         b.BookingID,
			ActivityBookingID: b.ActivityBookingID,
			Participants:      total,
			Revenue:           revenue,
		})
	}
}

func addVoucher(s *SlotSummary, vs VoucherSummary) {
	s.Vouchers = append(s.Vouchers, vs)
	s.Tickets[vs.Category] = s.Tickets[vs.Category].add(vs.Source, vs.Tickets)
	s.Costs.VoucherCost = s.Costs.VoucherCost.Add(vs.Cost)
}

// appendRef добавляет ресурс, если его еще нет в списке
func appendRef(refs []domain.ResourceRef, ref domain.ResourceRef) []domain.ResourceRef {
	for _, r := range refs {
		if r.ID == ref.ID {
			return refs
		}
	}
	return append(refs, ref)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// groupDays группирует слоты по дате. Дни и слоты внутри дня упорядочены по времени,
// опубликованные слоты идут раньше запланированных
func groupDays(slots []SlotSummary) []DaySummary {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := &slots[i], &slots[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Time != b.Time {
			return a.Time.IsBefore(b.Time)
		}
		if a.IsPlanned != b.IsPlanned {
			return !a.IsPlanned
		}
		if a.SlotID != b.SlotID {
			return a.SlotID < b.SlotID
		}
		return a.PlannedID < b.PlannedID
	})

	var days []DaySummary
	for _, slot := range slots {
		if len(days) == 0 || !days[len(days)-1].Date.Equal(slot.Date) {
			days = append(days, DaySummary{
				Date:         slot.Date,
				Participants: make(map[string]int),
				Guides:       []domain.ResourceRef{},
				Escorts:      []domain.ResourceRef{},
				Tickets:      make(map[string]TicketCounts),
				Costs:        zeroCosts(),
				Vouchers:     []VoucherSummary{},
				Bookings:     []BookingSummary{},
			})
		}

		day := &days[len(days)-1]
		day.BookingCount += slot.BookingCount
		for category, n := range slot.Participants {
			day.Participants[category] += n
		}
		day.TotalParticipants += slot.TotalParticipants
		day.AvailabilityLeft += slot.AvailabilityLeft
		for _, ref := range slot.Guides {
			day.Guides = appendRef(day.Guides, ref)
		}
		for _, ref := range slot.Escorts {
			day.Escorts = appendRef(day.Escorts, ref)
		}
		for category, counts := range slot.Tickets {
			current := day.Tickets[category]
			current.B2B += counts.B2B
			current.B2C += counts.B2C
			day.Tickets[category] = current
		}
		day.Costs = day.Costs.Add(slot.Costs)
		day.Vouchers = append(day.Vouchers, slot.Vouchers...)
		day.Bookings = append(day.Bookings, slot.Bookings...)
		day.Slots = append(day.Slots, slot)
	}

	for i := range days {
		days[i].Status = DayStatus(days[i].Slots)
	}

	return days
}

// DayStatus статус дня по опубликованным слотам:
// AVAILABLE, если есть хоть один доступный, затем LIMITED, затем SOLD_OUT;
// CLOSED, если все слоты закрыты; PLANNED, если в дне только запланированные слоты
func DayStatus(slots []SlotSummary) domain.SlotStatus {
	seen := make(map[domain.SlotStatus]bool)
	published := 0
	for _, s := range slots {
		if s.IsPlanned {
			continue
		}
		published++
		seen[s.Status] = true
	}

	switch {
	case published == 0:
		return domain.SlotPlanned
	case seen[domain.SlotAvailable]:
		return domain.SlotAvailable
	case seen[domain.SlotLimited]:
		return domain.SlotLimited
	case seen[domain.SlotSoldOut]:
		return domain.SlotSoldOut
	default:
		return domain.SlotClosed
	}
}

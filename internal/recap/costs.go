package recap

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

type kindResource struct {
	kind       domain.AssignmentKind
	resourceID int64
}

type kindAssignment struct {
	kind         domain.AssignmentKind
	assignmentID int64
}

// pricing тарифы и явные суммы назначений
type pricing struct {
	rates     map[kindResource]domain.ResourceRate
	overrides map[kindAssignment]decimal.Decimal
}

func newPricing(rates []domain.ResourceRate, overrides []domain.CostOverride) *pricing {
	p := &pricing{
		rates: indexBy(rates, func(r domain.ResourceRate) kindResource {
			return kindResource{kind: r.Kind, resourceID: r.ResourceID}
		}),
		overrides: make(map[kindAssignment]decimal.Decimal, len(overrides)),
	}

	for _, o := range overrides {
		key := kindAssignment{kind: o.Kind, assignmentID: o.AssignmentID}
		if _, ok := p.overrides[key]; ok {
			continue
		}
		p.overrides[key] = o.Amount
	}

	return p
}

func (p *pricing) override(a *domain.Assignment) (decimal.Decimal, bool) {
	amount, ok := p.overrides[kindAssignment{kind: a.Kind, assignmentID: a.ID}]
	return amount, ok
}

func (p *pricing) rate(a *domain.Assignment) (domain.ResourceRate, bool) {
	rate, ok := p.rates[kindResource{kind: a.Kind, resourceID: a.ResourceID}]
	return rate, ok
}

// guideOverrides явные суммы назначений гидов для OverrideRule
func (p *pricing) guideOverrides() map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal)
	for key, amount := range p.overrides {
		if key.kind == domain.KindGuide {
			out[key.assignmentID] = amount
		}
	}
	return out
}

// unitCost стоимость наушников или печати для слота: override, иначе тариф
// Тариф per_person умножается на фактическое число участников, fixed берется как есть
func (p *pricing) unitCost(a *domain.Assignment, participants int) decimal.Decimal {
	if participants <= 0 {
		return decimal.Zero
	}
	if amount, ok := p.override(a); ok {
		return amount
	}

	rate, ok := p.rate(a)
	if !ok {
		return decimal.Zero
	}
	if rate.Type == domain.RatePerPerson {
		return rate.Amount.Mul(decimal.NewFromInt(int64(participants)))
	}
	return rate.Amount
}

// escortBase стоимость сопровождающего за день до деления: override, иначе тариф
func (p *pricing) escortBase(a *domain.Assignment) decimal.Decimal {
	if amount, ok := p.override(a); ok {
		return amount
	}
	if rate, ok := p.rate(a); ok {
		return rate.Amount
	}
	return decimal.Zero
}

type escortDay struct {
	escortID int64
	date     string
}

// escortCosts стоимость сопровождающих по слотам, в два прохода:
// сначала для каждой пары (сопровождающий, дата) считается число различных слотов с участниками,
// затем ставка делится на это число. Слоты без участников не получают стоимость и не влияют на делитель
func escortCosts(
	assignments []domain.Assignment,
	slots *SlotIndex,
	participants map[int64]int,
	p *pricing,
) map[int64]decimal.Decimal {
	qualifying := make(map[escortDay]map[int64]struct{})

	for i := range assignments {
		a := &assignments[i]
		slot, ok := slots.Slot(a.AvailabilityID)
		if !ok || participants[a.AvailabilityID] <= 0 {
			continue
		}
		key := escortDay{escortID: a.ResourceID, date: slot.Date.Format(domain.DateFormat)}
		if qualifying[key] == nil {
			qualifying[key] = make(map[int64]struct{})
		}
		qualifying[key][a.AvailabilityID] = struct{}{}
	}

	type escortSlot struct {
		escortID       int64
		availabilityID int64
	}
	charged := make(map[escortSlot]struct{})

	costs := make(map[int64]decimal.Decimal)
	for i := range assignments {
		a := &assignments[i]
		slot, ok := slots.Slot(a.AvailabilityID)
		if !ok || participants[a.AvailabilityID] <= 0 {
			continue
		}
		// повторное назначение того же сопровождающего на слот не удваивает долю
		pair := escortSlot{escortID: a.ResourceID, availabilityID: a.AvailabilityID}
		if _, seen := charged[pair]; seen {
			continue
		}
		charged[pair] = struct{}{}
		key := escortDay{escortID: a.ResourceID, date: slot.Date.Format(domain.DateFormat)}
		counter := len(qualifying[key])
		if counter == 0 {
			continue
		}

		share := p.escortBase(a).Div(decimal.NewFromInt(int64(counter)))
		costs[a.AvailabilityID] = costs[a.AvailabilityID].Add(share)
	}

	return costs
}

// secondaryMembers назначения гидов, входящие в группу услуг не как основное
func secondaryMembers(groups []domain.ServiceGroup) map[int64]struct{} {
	out := make(map[int64]struct{})
	for _, g := range groups {
		for _, id := range g.MemberAssignmentIDs {
			if id == g.PrimaryAssignmentID {
				continue
			}
			out[id] = struct{}{}
		}
	}
	return out
}

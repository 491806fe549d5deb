package domain

import "strings"

// PricingPolicy таблицы исключений категорий участников по турам
// Компенсирует известные ошибки ввода данных в источнике. Применяется одинаково
// при подсчете участников, при определении набора категорий и при экспорте
//
// AllowOnlyIDs имеет приоритет над ExcludeByName для одного и того же тура
type PricingPolicy struct {
	ExcludeByName map[string][]string // tourID -> названия категорий
	AllowOnlyIDs  map[string][]int64  // tourID -> pricing_category_id
}

// Counts true, если строка участников учитывается в итогах тура
func (p PricingPolicy) Counts(tourID string, participant Participant) bool {
	if allowed, ok := p.AllowOnlyIDs[tourID]; ok {
		for _, id := range allowed {
			if id == participant.PricingCategoryID {
				return true
			}
		}
		return false
	}

	if excluded, ok := p.ExcludeByName[tourID]; ok {
		name := strings.TrimSpace(participant.Category)
		for _, ex := range excluded {
			if strings.EqualFold(strings.TrimSpace(ex), name) {
				return false
			}
		}
	}

	return true
}

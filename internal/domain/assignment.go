package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AssignmentKind тип ресурса, назначаемого на слот
type AssignmentKind string

const (
	KindGuide     AssignmentKind = "guide"
	KindEscort    AssignmentKind = "escort"
	KindHeadphone AssignmentKind = "headphone"
	KindPrinting  AssignmentKind = "printing"
)

// AssignmentKinds все поддерживаемые типы назначений
var AssignmentKinds = []AssignmentKind{KindGuide, KindEscort, KindHeadphone, KindPrinting}

// ParseAssignmentKind проверяет тип назначения из запроса
func ParseAssignmentKind(s string) (AssignmentKind, error) {
	for _, k := range AssignmentKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown assignment kind %q", s)
}

// Assignment связь ресурса (гид, сопровождающий, комплект наушников, печать) со слотом
type Assignment struct {
	ID             int64
	Kind           AssignmentKind
	ResourceID     int64
	ResourceName   string
	AvailabilityID int64
}

// ResourceRef идентификатор и имя ресурса для вывода в отчете
type ResourceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CostOverride явная сумма, заменяющая расчетную стоимость назначения
type CostOverride struct {
	ID           int64
	Kind         AssignmentKind
	AssignmentID int64
	Amount       decimal.Decimal
}

// RateType способ применения тарифа ресурса
type RateType string

const (
	RateFixed     RateType = "fixed"
	RatePerPerson RateType = "per_person"
)

// ResourceRate тариф ресурса, используется если нет CostOverride
type ResourceRate struct {
	Kind       AssignmentKind
	ResourceID int64
	Amount     decimal.Decimal
	Type       RateType
}

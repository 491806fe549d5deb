package assignment

import "github.com/m04kA/SMC-TourRecapService/internal/domain"

// table описание таблицы назначений одного типа и справочника ресурсов
type table struct {
	name          string
	resourceCol   string
	resourceTable string
}

var tables = map[domain.AssignmentKind]table{
	domain.KindGuide:     {name: "guide_assignments", resourceCol: "guide_id", resourceTable: "guides"},
	domain.KindEscort:    {name: "escort_assignments", resourceCol: "escort_id", resourceTable: "escorts"},
	domain.KindHeadphone: {name: "headphone_assignments", resourceCol: "headphone_set_id", resourceTable: "headphone_sets"},
	domain.KindPrinting:  {name: "printing_assignments", resourceCol: "printing_job_id", resourceTable: "printing_jobs"},
}

func tableFor(kind domain.AssignmentKind) (table, bool) {
	t, ok := tables[kind]
	return t, ok
}

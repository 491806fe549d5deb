package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	DefaultMaxRangeDays = 62
	MaxNoteLength       = 2000
)

// MoneyPlaces количество знаков после запятой для денежных сумм в отчетах
const MoneyPlaces = 2

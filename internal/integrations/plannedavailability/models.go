package plannedavailability

// Slot модель запланированного слота из сервиса планирования
type Slot struct {
	ID      int64  `json:"id"`
	TourID  string `json:"tourId"`
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM или HH:MM:SS
	Vacancy int    `json:"vacancy"`
	Status  string `json:"status"`
}

// ListResponse ответ GET /planned-availability
type ListResponse struct {
	Items []Slot `json:"items"`
}

// ErrorResponse модель ошибки от сервиса планирования
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

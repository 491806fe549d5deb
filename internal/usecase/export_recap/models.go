package export_recap

import (
	"bytes"
	"time"
)

// Request модель запроса выгрузки отчета
type Request struct {
	TourID    string
	StartDate time.Time
	EndDate   time.Time
}

// Response файл выгрузки
type Response struct {
	Body     *bytes.Buffer
	Filename string
}

// ContentType MIME-тип выгрузки
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Recap"

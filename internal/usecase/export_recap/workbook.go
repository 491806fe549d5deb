package export_recap

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/internal/recap"
)

// row одна строка выгрузки: слот или итог дня
type row struct {
	date         string
	time         string
	status       string
	planned      bool
	bookings     int
	participants map[string]int
	total        int
	left         int
	guides       []domain.ResourceRef
	escorts      []domain.ResourceRef
	tickets      map[string]recap.TicketCounts
	costs        recap.Costs
}

// renderWorkbook строит лист: строка на слот, затем итог дня; в конце общий итог
func renderWorkbook(r *recap.Result) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: new sheet: %v", ErrRender, err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := buildHeaders(r)
	for i, h := range headers {
		if err := f.SetCellValue(sheetName, cellName(i, 1), SanitizeCell(h)); err != nil {
			return nil, fmt.Errorf("%w: header: %v", ErrRender, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(sheetName, cellName(0, 1), cellName(len(headers)-1, 1), headerStyle)
	}
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	line := 2
	for _, day := range r.Days {
		date := day.Date.Format(domain.DateFormat)
		for _, s := range day.Slots {
			if err := writeRow(f, line, r, row{
				date:         date,
				time:         s.Time.String(),
				status:       string(s.Status),
				planned:      s.IsPlanned,
				bookings:     s.BookingCount,
				participants: s.Participants,
				total:        s.TotalParticipants,
				left:         s.AvailabilityLeft,
				guides:       s.Guides,
				escorts:      s.Escorts,
				tickets:      s.Tickets,
				costs:        s.Costs,
			}); err != nil {
				return nil, err
			}
			line++
		}

		if err := writeRow(f, line, r, row{
			date:         date,
			time:         "Day total",
			status:       string(day.Status),
			bookings:     day.BookingCount,
			participants: day.Participants,
			total:        day.TotalParticipants,
			left:         day.AvailabilityLeft,
			guides:       day.Guides,
			escorts:      day.Escorts,
			tickets:      day.Tickets,
			costs:        day.Costs,
		}); err != nil {
			return nil, err
		}
		line++
	}

	if err := writeRow(f, line, r, row{time: "Total", costs: r.Totals}); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("%w: write: %v", ErrRender, err)
	}

	return buf, nil
}

var costHeaders = []string{
	"Revenue",
	"Guide cost",
	"Escort cost",
	"Headphone cost",
	"Printing cost",
	"Voucher cost",
	"Total cost",
	"Net profit",
}

func buildHeaders(r *recap.Result) []string {
	headers := []string{"Date", "Time", "Status", "Planned", "Bookings"}
	headers = append(headers, r.Categories...)
	headers = append(headers, "Participants", "Availability left", "Guides", "Escorts")
	for _, kind := range r.TicketKinds {
		headers = append(headers, kind+" B2B", kind+" B2C")
	}
	return append(headers, costHeaders...)
}

func writeRow(f *excelize.File, line int, r *recap.Result, rw row) error {
	values := []interface{}{
		SanitizeCell(rw.date),
		SanitizeCell(rw.time),
		SanitizeCell(rw.status),
		yesNo(rw.planned),
		rw.bookings,
	}
	for _, category := range r.Categories {
		values = append(values, rw.participants[category])
	}
	values = append(values,
		rw.total,
		rw.left,
		SanitizeCell(joinNames(rw.guides)),
		SanitizeCell(joinNames(rw.escorts)),
	)
	for _, kind := range r.TicketKinds {
		counts := rw.tickets[kind]
		values = append(values, counts.B2B, counts.B2C)
	}
	for _, amount := range []decimal.Decimal{
		rw.costs.Revenue,
		rw.costs.GuideCost,
		rw.costs.EscortCost,
		rw.costs.HeadphoneCost,
		rw.costs.PrintingCost,
		rw.costs.VoucherCost,
		rw.costs.TotalCost,
		rw.costs.NetProfit,
	} {
		values = append(values, amount.Round(domain.MoneyPlaces).InexactFloat64())
	}

	if err := f.SetSheetRow(sheetName, cellName(0, line), &values); err != nil {
		return fmt.Errorf("%w: row %d: %v", ErrRender, line, err)
	}
	return nil
}

func joinNames(refs []domain.ResourceRef) string {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		names = append(names, ref.Name)
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

func cellName(col, line int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, line)
	return name
}

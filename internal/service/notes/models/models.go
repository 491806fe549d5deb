package models

import (
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
)

// Request модели

// ListNotesRequest запрос заметок тура за период
type ListNotesRequest struct {
	TourID    string
	StartDate string
	EndDate   string
}

// CreateNoteRequest запрос на создание заметки
type CreateNoteRequest struct {
	AuthorID       int64   `json:"-"`
	TourID         *string `json:"tourId,omitempty"`
	Date           string  `json:"date"`
	AvailabilityID *int64  `json:"availabilityId,omitempty"`
	GuideID        *int64  `json:"guideId,omitempty"`
	EscortID       *int64  `json:"escortId,omitempty"`
	VoucherID      *int64  `json:"voucherId,omitempty"`
	Content        string  `json:"content"`
}

// Response модели

// NoteResponse заметка
type NoteResponse struct {
	ID             string    `json:"id"`
	TourID         *string   `json:"tourId,omitempty"`
	Date           string    `json:"date"`
	AvailabilityID *int64    `json:"availabilityId,omitempty"`
	GuideID        *int64    `json:"guideId,omitempty"`
	EscortID       *int64    `json:"escortId,omitempty"`
	VoucherID      *int64    `json:"voucherId,omitempty"`
	Content        string    `json:"content"`
	AuthorID       int64     `json:"authorId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Badges количество заметок по объектам отчета
type Badges struct {
	ByDate    map[string]int `json:"byDate"`
	BySlot    map[int64]int  `json:"bySlot"`
	ByGuide   map[int64]int  `json:"byGuide"`
	ByEscort  map[int64]int  `json:"byEscort"`
	ByVoucher map[int64]int  `json:"byVoucher"`
}

// NotesResponse список заметок со счетчиками
type NotesResponse struct {
	Notes  []NoteResponse `json:"notes"`
	Badges Badges         `json:"badges"`
}

// FromDomainNote конвертирует заметку в ответ
func FromDomainNote(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:             n.ID.String(),
		TourID:         n.TourID,
		Date:           n.Date.Format(domain.DateFormat),
		AvailabilityID: n.AvailabilityID,
		GuideID:        n.GuideID,
		EscortID:       n.EscortID,
		VoucherID:      n.VoucherID,
		Content:        n.Content,
		AuthorID:       n.AuthorID,
		CreatedAt:      n.CreatedAt,
	}
}

// CountBadges считает заметки по дате и по каждому объекту, к которому они привязаны
func CountBadges(notes []*domain.Note) Badges {
	b := Badges{
		ByDate:    map[string]int{},
		BySlot:    map[int64]int{},
		ByGuide:   map[int64]int{},
		ByEscort:  map[int64]int{},
		ByVoucher: map[int64]int{},
	}

	for _, n := range notes {
		b.ByDate[n.Date.Format(domain.DateFormat)]++
		if n.AvailabilityID != nil {
			b.BySlot[*n.AvailabilityID]++
		}
		if n.GuideID != nil {
			b.ByGuide[*n.GuideID]++
		}
		if n.EscortID != nil {
			b.ByEscort[*n.EscortID]++
		}
		if n.VoucherID != nil {
			b.ByVoucher[*n.VoucherID]++
		}
	}

	return b
}

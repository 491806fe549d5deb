package plannedavailability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m04kA/SMC-TourRecapService/internal/domain"
	"github.com/m04kA/SMC-TourRecapService/pkg/types"
)

// Client клиент сервиса планирования (еще не опубликованные слоты)
type Client struct {
	baseURL    string
	statuses   []string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса планирования
// statuses - фильтр по статусам запланированных слотов, пустой список означает все
func NewClient(baseURL string, timeout time.Duration, statuses []string, log Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		statuses: statuses,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ListPlanned получает запланированные слоты тура за период
func (c *Client) ListPlanned(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.PlannedSlot, error) {
	params := url.Values{}
	params.Set("tourId", tourID)
	params.Set("startDate", startDate.Format(domain.DateFormat))
	params.Set("endDate", endDate.Format(domain.DateFormat))
	for _, status := range c.statuses {
		params.Add("status", status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/planned-availability?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		// У тура нет запланированных слотов
		return nil, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var list ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	slots := make([]domain.PlannedSlot, 0, len(list.Items))
	for _, item := range list.Items {
		slot, err := toDomain(item, tourID)
		if err != nil {
			return nil, fmt.Errorf("%w: slot id=%d: %v", ErrInvalidResponse, item.ID, err)
		}
		slots = append(slots, slot)
	}

	return slots, nil
}

// ListPlannedWithGracefulDegradation как ListPlanned, но любая ошибка приводит к пустому списку
// Ошибка возвращается обернутой в ErrServiceDegraded, чтобы вызывающий код мог отметить неполный отчет
func (c *Client) ListPlannedWithGracefulDegradation(ctx context.Context, tourID string, startDate, endDate time.Time) ([]domain.PlannedSlot, error) {
	slots, err := c.ListPlanned(ctx, tourID, startDate, endDate)
	if err != nil {
		c.log.Error("Planned availability unavailable, applying graceful degradation for tour_id=%s: %v", tourID, err)
		return []domain.PlannedSlot{}, fmt.Errorf("%w: tour_id=%s, error=%v", ErrServiceDegraded, tourID, err)
	}

	c.log.Info("Fetched %d planned slots for tour_id=%s", len(slots), tourID)
	return slots, nil
}

func toDomain(s Slot, tourID string) (domain.PlannedSlot, error) {
	date, err := time.Parse(domain.DateFormat, s.Date)
	if err != nil {
		return domain.PlannedSlot{}, fmt.Errorf("invalid date %q", s.Date)
	}

	t, err := types.NewTimeStringFromString(s.Time)
	if err != nil {
		return domain.PlannedSlot{}, err
	}

	if s.TourID == "" {
		s.TourID = tourID
	}

	return domain.PlannedSlot{
		ID:      s.ID,
		TourID:  s.TourID,
		Date:    date,
		Time:    t,
		Vacancy: s.Vacancy,
		Status:  domain.ParseSlotStatus(s.Status),
	}, nil
}

package refresher

import "errors"

var (
	// ErrInvalidSchedule возвращается при некорректном cron выражении
	ErrInvalidSchedule = errors.New("refresher: invalid schedule")

	// ErrSubscribe возвращается, если не удалось подписаться на уведомления
	ErrSubscribe = errors.New("refresher: failed to subscribe to changes")

	// ErrAlreadyStarted возвращается при повторном запуске воркера
	ErrAlreadyStarted = errors.New("refresher: already started")
)

package assignment

import (
	"github.com/m04kA/SMC-TourRecapService/pkg/dbmetrics"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

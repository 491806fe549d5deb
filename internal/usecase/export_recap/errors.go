package export_recap

import "errors"

var (
	// ErrRender возвращается при ошибке формирования файла
	ErrRender = errors.New("export_recap: failed to render workbook")
)

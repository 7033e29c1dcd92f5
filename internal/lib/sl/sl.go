// Package sl содержит вспомогательные функции для структурированного
// логирования через slog. Все слои сервиса продажи билетов используют их,
// чтобы ошибки в логах имели единый вид.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to purchase tickets", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

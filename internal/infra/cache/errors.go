package cache

import "errors"

var (
	// ErrCacheMiss возвращается, когда отчета нет в кэше
	ErrCacheMiss = errors.New("cache: recap not cached")

	// ErrEncode возвращается при ошибке сериализации отчета
	ErrEncode = errors.New("cache: failed to encode recap")

	// ErrDecode возвращается при ошибке десериализации отчета
	ErrDecode = errors.New("cache: failed to decode recap")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("cache: redis error")
)

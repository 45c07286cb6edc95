package logging

import (
	"time"

	"github.com/tidemark/tradecore/num"

	"go.uber.org/zap"
)

// Field aliases the zap field type so callers only import this package.
type Field = zap.Field

func String(key, val string) Field {
	return zap.String(key, val)
}

func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

func Int(key string, val int) Field {
	return zap.Int(key, val)
}

func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

func Decimal(key string, val num.Decimal) Field {
	return zap.String(key, val.String())
}

func Error(val error) Field {
	return zap.Error(val)
}

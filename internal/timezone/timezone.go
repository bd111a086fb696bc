package timezone

import (
	"context"
	"sync"
	"time"
)

// DefaultName задает таймзону по умолчанию, если в контексте запроса зона не задана.
const DefaultName = "America/El_Salvador"

const dateLayout = "2006-01-02"

type contextKey struct{}

var defaultOnce = sync.OnceValue(func() *time.Location {
	loc, err := time.LoadLocation(DefaultName)
	if err != nil {
		return time.UTC
	}
	return loc
})

// Default возвращает локацию таймзоны по умолчанию.
func Default() *time.Location {
	return defaultOnce()
}

// WithLocation привязывает таймзону пользователя к контексту запроса.
func WithLocation(ctx context.Context, loc *time.Location) context.Context {
	if loc == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, loc)
}

// WithName загружает IANA-зону по имени и привязывает ее к контексту.
func WithName(ctx context.Context, name string) (context.Context, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return ctx, err
	}
	return WithLocation(ctx, loc), nil
}

// FromContext возвращает таймзону из контекста либо зону по умолчанию.
func FromContext(ctx context.Context) *time.Location {
	if ctx != nil {
		if loc, ok := ctx.Value(contextKey{}).(*time.Location); ok && loc != nil {
			return loc
		}
	}
	return Default()
}

// ToStorage приводит календарную дату к каноническому виду хранения:
// полночь этого дня в зоне пользователя, выраженная как UTC-момент.
// Время суток исходного значения отбрасывается, нулевая дата проходит без изменений.
func ToStorage(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	if loc == nil {
		loc = Default()
	}

	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc).UTC()
}

// FromStorage возвращает настенное представление сохраненного момента в зоне пользователя.
// Для значений, полученных через ToStorage, является его точной инверсией.
func FromStorage(t time.Time, loc *time.Location) time.Time {
	if t.IsZero() {
		return t
	}
	if loc == nil {
		loc = Default()
	}

	return t.In(loc)
}

// ToStoragePtr повторяет ToStorage для необязательных дат.
func ToStoragePtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	converted := ToStorage(*t, loc)
	return &converted
}

// FromStoragePtr повторяет FromStorage для необязательных дат.
func FromStoragePtr(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	converted := FromStorage(*t, loc)
	return &converted
}

// ParseLocalDate разбирает дату формата YYYY-MM-DD как полночь в зоне пользователя.
func ParseLocalDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = Default()
	}
	return time.ParseInLocation(dateLayout, value, loc)
}

// MonthBounds возвращает первый и последний день месяца, в котором лежит t.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	year, month, _ := t.Date()
	start := time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

package timezone

import (
	"context"
	"testing"
	"time"
)

// TestToStorageMidnight проверяет приведение даты к полуночи зоны пользователя в UTC.
func TestToStorageMidnight(t *testing.T) {
	loc, err := time.LoadLocation("America/El_Salvador")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	local := time.Date(2024, time.January, 15, 18, 45, 12, 0, loc)
	stored := ToStorage(local, loc)

	if stored.Location() != time.UTC {
		t.Fatalf("expected UTC instant, got %v", stored.Location())
	}

	// В Сальвадоре UTC-6 круглый год.
	want := time.Date(2024, time.January, 15, 6, 0, 0, 0, time.UTC)
	if !stored.Equal(want) {
		t.Fatalf("expected %v, got %v", want, stored)
	}
}

// TestRoundTripIdentity проверяет, что FromStorage является инверсией ToStorage.
func TestRoundTripIdentity(t *testing.T) {
	zones := []string{"America/El_Salvador", "Europe/Madrid", "Asia/Tokyo", "Pacific/Auckland"}
	dates := [][3]int{
		{2024, 1, 1},
		{2024, 2, 29},
		{2024, 6, 15},
		{2024, 12, 31},
		{2031, 7, 4},
	}

	for _, zone := range zones {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			t.Fatalf("load location %s: %v", zone, err)
		}

		for _, d := range dates {
			local := time.Date(d[0], time.Month(d[1]), d[2], 0, 0, 0, 0, loc)
			back := FromStorage(ToStorage(local, loc), loc)

			if !back.Equal(local) {
				t.Fatalf("%s: expected %v, got %v", zone, local, back)
			}

			year, month, day := back.Date()
			if year != d[0] || int(month) != d[1] || day != d[2] {
				t.Fatalf("%s: calendar day drifted, expected %v, got %d-%d-%d", zone, d, year, month, day)
			}
		}
	}
}

// TestToStorageDropsTimeOfDay проверяет, что время суток не влияет на сохраняемый момент.
func TestToStorageDropsTimeOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	morning := ToStorage(time.Date(2024, time.March, 10, 0, 30, 0, 0, loc), loc)
	evening := ToStorage(time.Date(2024, time.March, 10, 23, 59, 59, 0, loc), loc)

	if !morning.Equal(evening) {
		t.Fatalf("expected identical instants, got %v and %v", morning, evening)
	}
}

// TestZeroDatePassesThrough проверяет, что нулевые значения проходят без изменений.
func TestZeroDatePassesThrough(t *testing.T) {
	if !ToStorage(time.Time{}, Default()).IsZero() {
		t.Fatal("expected zero time to pass through ToStorage")
	}
	if !FromStorage(time.Time{}, Default()).IsZero() {
		t.Fatal("expected zero time to pass through FromStorage")
	}
	if ToStoragePtr(nil, Default()) != nil {
		t.Fatal("expected nil to pass through ToStoragePtr")
	}
	if FromStoragePtr(nil, Default()) != nil {
		t.Fatal("expected nil to pass through FromStoragePtr")
	}
}

// TestFromContextDefault проверяет возврат зоны по умолчанию без контекста.
func TestFromContextDefault(t *testing.T) {
	loc := FromContext(context.Background())
	if loc.String() != DefaultName {
		t.Fatalf("expected %s, got %s", DefaultName, loc)
	}
}

// TestWithNameBindsLocation проверяет привязку зоны к контексту по имени.
func TestWithNameBindsLocation(t *testing.T) {
	ctx, err := WithName(context.Background(), "Europe/Madrid")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if got := FromContext(ctx).String(); got != "Europe/Madrid" {
		t.Fatalf("expected Europe/Madrid, got %s", got)
	}

	if _, err := WithName(context.Background(), "Not/AZone"); err == nil {
		t.Fatal("expected error for unknown zone")
	}
}

// TestMonthBounds проверяет границы месяца.
func TestMonthBounds(t *testing.T) {
	loc := Default()
	start, end := MonthBounds(time.Date(2024, time.February, 17, 10, 0, 0, 0, loc))

	if start.Format(dateLayout) != "2024-02-01" {
		t.Fatalf("unexpected start: %s", start.Format(dateLayout))
	}
	if end.Format(dateLayout) != "2024-02-29" {
		t.Fatalf("unexpected end: %s", end.Format(dateLayout))
	}
}

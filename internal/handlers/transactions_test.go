package handlers

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"example.com/finance-tracker/backend/internal/timezone"
)

func queryContext(t *testing.T, params url.Values) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest("GET", "/api/v1/transactions?"+params.Encode(), nil)
	req = req.WithContext(timezone.WithLocation(req.Context(), time.UTC))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

// TestPeriodFromQueryValid проверяет корректный разбор периода.
func TestPeriodFromQueryValid(t *testing.T) {
	params := url.Values{}
	params.Set("from", "2024-01-01")
	params.Set("to", "2024-01-31")

	start, end, err := periodFromQuery(queryContext(t, params))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if start.Format(dateLayout) != "2024-01-01" {
		t.Fatalf("unexpected start: %s", start.Format(dateLayout))
	}
	if end.Format(dateLayout) != "2024-01-31" {
		t.Fatalf("unexpected end: %s", end.Format(dateLayout))
	}
}

// TestPeriodFromQueryDefaultsToCurrentMonth проверяет период по умолчанию.
func TestPeriodFromQueryDefaultsToCurrentMonth(t *testing.T) {
	start, end, err := periodFromQuery(queryContext(t, url.Values{}))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	wantStart, wantEnd := timezone.MonthBounds(time.Now().UTC())
	if !start.Equal(wantStart) {
		t.Fatalf("expected start %v, got %v", wantStart, start)
	}
	if !end.Equal(wantEnd) {
		t.Fatalf("expected end %v, got %v", wantEnd, end)
	}
}

// TestPeriodFromQueryInvalid проверяет ошибки при неверном периоде.
func TestPeriodFromQueryInvalid(t *testing.T) {
	partial := url.Values{}
	partial.Set("from", "2024-01-01")
	if _, _, err := periodFromQuery(queryContext(t, partial)); err == nil {
		t.Fatal("expected error when to is missing")
	}

	badFormat := url.Values{}
	badFormat.Set("from", "2024/01/01")
	badFormat.Set("to", "2024-01-31")
	if _, _, err := periodFromQuery(queryContext(t, badFormat)); err == nil {
		t.Fatal("expected error for invalid from format")
	}

	reversed := url.Values{}
	reversed.Set("from", "2024-02-01")
	reversed.Set("to", "2024-01-31")
	if _, _, err := periodFromQuery(queryContext(t, reversed)); err == nil {
		t.Fatal("expected error for to before from")
	}
}

// TestNormalizeName проверяет обрезку пробелов в имени.
func TestNormalizeName(t *testing.T) {
	name := "  Ada Lovelace  "
	got := normalizeName(&name)
	if got == nil || *got != "Ada Lovelace" {
		t.Fatalf("expected trimmed name, got %v", got)
	}

	blank := "   "
	if normalizeName(&blank) != nil {
		t.Fatal("expected nil for blank name")
	}

	if normalizeName(nil) != nil {
		t.Fatal("expected nil for nil name")
	}
}

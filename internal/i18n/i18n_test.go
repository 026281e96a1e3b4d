package i18n

import "testing"

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":                        LocaleES,
		"en":                      LocaleEN,
		"zh-CN,zh;q=0.9":          LocaleZH,
		"es-CO,es;q=0.9,en;q=0.5": LocaleES,
		"??":                      LocaleES,
	}
	for raw, want := range cases {
		if got := NormalizeLocale(raw); got != want {
			t.Fatalf("NormalizeLocale(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestTFallsBackToDefaultThenKey(t *testing.T) {
	if got := T("fr-FR", "error.note_not_found"); got != messages[DefaultLocale]["error.note_not_found"] {
		t.Fatalf("unexpected fallback message: %s", got)
	}
	if got := T(LocaleEN, "error.unknown_key"); got != "error.unknown_key" {
		t.Fatalf("expected key fallback, got %s", got)
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf(LocaleEN, "error.shift_conflict", "night")
	want := "Worker already holds the night shift on this position and date, release it first"
	if got != want {
		t.Fatalf("unexpected message: %s", got)
	}
}

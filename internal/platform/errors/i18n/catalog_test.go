package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if empty := GetCatalog(""); empty != base {
		t.Fatal("expected empty locale to use en-US catalog")
	}
}

func TestGetCatalogMatchesKorean(t *testing.T) {
	cat := GetCatalog("ko-KR")
	if cat.Locale() != "ko" {
		t.Fatalf("locale = %q, want %q", cat.Locale(), "ko")
	}
	got := cat.Format(CodeLadderColumnResolved, map[string]string{"Player": "민수"})
	if got != "민수님은 이미 사다리를 탔습니다." {
		t.Fatalf("message = %q", got)
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	got := GetCatalog("en-US").Format(CodeLadderTooFewPlayers, map[string]string{"Min": "2"})
	if got != "At least 2 players are needed." {
		t.Fatalf("message = %q", got)
	}
}

func TestEveryCodeTranslated(t *testing.T) {
	base := translations[baseTag()]
	for tag, messages := range translations {
		for code := range base {
			if _, ok := messages[code]; !ok {
				t.Errorf("%s missing translation for %s", tag, code)
			}
		}
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

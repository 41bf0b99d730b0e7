package catalog

import (
	"testing"
	"testing/fstest"
)

func TestDefaultBundleHasBaseAndSpanish(t *testing.T) {
	bundle := Default()
	for _, locale := range []string{"en-US", "es-ES"} {
		if !bundle.HasLocale(locale) {
			t.Fatalf("expected locale %s", locale)
		}
	}
}

func TestLocalesShareKeys(t *testing.T) {
	bundle := Default()
	base := bundle.locales[BaseLocale].Messages
	spanish := bundle.locales["es-ES"].Messages
	for key := range base {
		if _, ok := spanish[key]; !ok {
			t.Fatalf("es-ES missing key %s", key)
		}
	}
	for key := range spanish {
		if _, ok := base[key]; !ok {
			t.Fatalf("es-ES has extra key %s", key)
		}
	}
}

func TestSprintfFormatsLocalizedMessage(t *testing.T) {
	bundle := Default()
	got := bundle.Sprintf("es-ES", "notification.region.conquered.body", "Ana", "chile", "Bruno")
	if got != "Ana tomó chile de Bruno." {
		t.Fatalf("message = %q", got)
	}
	got = bundle.Sprintf("en-US", "notification.silo.constructed.body", "Ana", "chile", 3)
	if got != "Ana started a silo at chile. Ready in 3 turns." {
		t.Fatalf("message = %q", got)
	}
}

func TestSprintfFallsBackToBaseLocale(t *testing.T) {
	bundle := Default()
	got := bundle.Sprintf("fr-FR", "notification.launch.title")
	if got != "Launch" {
		t.Fatalf("message = %q, want base locale", got)
	}
}

func TestMessageFallback(t *testing.T) {
	bundle := Default()
	if _, ok := bundle.Message("de-DE", "notification.launch.title"); !ok {
		t.Fatal("expected base-locale fallback")
	}
	if _, ok := bundle.Message("en-US", "missing.key"); ok {
		t.Fatal("expected missing key")
	}
}

func TestLoadFromFSValidatesLayout(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{
			name: "no files",
			fs:   fstest.MapFS{},
		},
		{
			name: "locale mismatch",
			fs: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte("locale: \"es-ES\"\nnamespace: \"core\"\nmessages:\n  \"a\": \"b\"\n")},
			},
		},
		{
			name: "namespace mismatch",
			fs: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte("locale: \"en-US\"\nnamespace: \"other\"\nmessages:\n  \"a\": \"b\"\n")},
			},
		},
		{
			name: "missing base locale",
			fs: fstest.MapFS{
				"locales/es-ES/core.yaml": {Data: []byte("locale: \"es-ES\"\nnamespace: \"core\"\nmessages:\n  \"a\": \"b\"\n")},
			},
		},
		{
			name: "empty messages",
			fs: fstest.MapFS{
				"locales/en-US/core.yaml": {Data: []byte("locale: \"en-US\"\nnamespace: \"core\"\n")},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadFromFS(tt.fs); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// BaseLocale is the locale used when a requested locale is unknown.
const BaseLocale = "en-US"

// Catalog renders error codes to user-facing messages for one locale.
type Catalog struct {
	locale  string
	printer *message.Printer
	known   map[Code]struct{}
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds override and runtime-built catalogs by locale.
	catalogs = map[string]*Catalog{}

	builder   = catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	supported []language.Tag
	matcher   language.Matcher
	knownKeys = map[Code]struct{}{}
)

func init() {
	for tag, messages := range translations {
		supported = append(supported, tag)
		for code, text := range messages {
			if err := builder.SetString(tag, code, text); err != nil {
				panic(err)
			}
			knownKeys[code] = struct{}{}
		}
	}
	// The matcher falls back to its first tag, so the base locale leads.
	for i, tag := range supported {
		if tag == language.AmericanEnglish {
			supported[0], supported[i] = supported[i], supported[0]
		}
	}
	matcher = language.NewMatcher(supported)
}

// GetCatalog returns the catalog for the given locale.
// Falls back to en-US if the locale is not found.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	tag := resolveTag(requested)
	resolvedLocale := tag.String()
	if c, ok := lookupCatalog(resolvedLocale); ok {
		return c
	}

	built := &Catalog{
		locale:  resolvedLocale,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		known:   knownKeys,
	}
	return storeCatalogIfAbsent(resolvedLocale, built)
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	if _, ok := c.known[code]; !ok {
		return code
	}
	tmpl := c.printer.Sprintf(code)

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

// RegisterCatalog registers a new catalog for the given locale.
// This is primarily for testing purposes.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a catalog for locale backed by its own messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	tag := language.Make(locale)
	own := catalog.NewBuilder()
	known := make(map[Code]struct{}, len(messages))
	for code, text := range messages {
		// SetString only fails for malformed tags, which Make never returns.
		_ = own.SetString(tag, code, text)
		known[code] = struct{}{}
	}
	return &Catalog{
		locale:  locale,
		printer: message.NewPrinter(tag, message.Catalog(own)),
		known:   known,
	}
}

func baseTag() language.Tag {
	return supported[0]
}

func resolveTag(locale string) language.Tag {
	requested, err := language.Parse(locale)
	if err != nil {
		return baseTag()
	}
	_, index, confidence := matcher.Match(requested)
	if confidence == language.No {
		return baseTag()
	}
	return supported[index]
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}

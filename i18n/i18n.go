// Package i18n holds the site's three languages and resolves which one a
// request should be served in.
package i18n

import (
	"net/http"
	"strings"
)

// Lang is a supported site language.
type Lang string

const (
	AR Lang = "ar"
	FR Lang = "fr"
	EN Lang = "en"
)

// Default is the language served when a request expresses no preference.
const Default = FR

// Supported lists the site languages in display order.
var Supported = []Lang{AR, FR, EN}

// Valid reports whether code names a supported language.
func Valid(code string) bool {
	switch Lang(code) {
	case AR, FR, EN:
		return true
	}
	return false
}

// Dir returns the text direction for HTML rendering.
func (l Lang) Dir() string {
	if l == AR {
		return "rtl"
	}
	return "ltr"
}

// T returns the translation table for the language.
func (l Lang) T() Translations {
	if t, ok := translations[l]; ok {
		return t
	}
	return translations[Default]
}

// CookieName stores the visitor's language choice.
const CookieName = "site_lang"

// FromRequest resolves the request language: explicit query parameter,
// then cookie, then Accept-Language, then the default.
func FromRequest(r *http.Request) Lang {
	if code := r.URL.Query().Get("lang"); Valid(code) {
		return Lang(code)
	}
	if c, err := r.Cookie(CookieName); err == nil && Valid(c.Value) {
		return Lang(c.Value)
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		code := strings.TrimSpace(part)
		if i := strings.IndexAny(code, ";-"); i >= 0 {
			code = code[:i]
		}
		if Valid(code) {
			return Lang(code)
		}
	}
	return Default
}

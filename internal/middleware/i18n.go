// internal/middleware/i18n.go
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/art-rental-backend/internal/i18n"
)

// I18nMiddleware picks the response language from ?lang= or Accept-Language.
func I18nMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("lang", negotiateLanguage(c.Query("lang"), c.GetHeader("Accept-Language")))
		c.Next()
	}
}

func negotiateLanguage(query, header string) string {
	if lang := baseLanguage(query); i18n.IsSupported(lang) {
		return lang
	}

	// Handle cases like "fr-CA,fr;q=0.9,en;q=0.8". Entries are taken in
	// header order.
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.Split(part, ";")[0])
		if lang := baseLanguage(tag); i18n.IsSupported(lang) {
			return lang
		}
	}
	return i18n.DefaultLanguage
}

func baseLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag
}

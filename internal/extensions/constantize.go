package extensions

import (
	"strings"
	"unicode"
)

// constantize converts an identifier such as "my-extension" or "myExtension"
// to "MY_EXTENSION".
func constantize(s string) string {
	var b strings.Builder
	prevLower := false
	pendingSep := false
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			pendingSep = b.Len() > 0
			prevLower = false
			continue
		}
		if pendingSep || (prevLower && unicode.IsUpper(r)) {
			b.WriteByte('_')
		}
		pendingSep = false
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

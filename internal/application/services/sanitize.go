package services

import (
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"image-tier-api/internal/domain/account"
)

const maxBaseNameLen = 100

var windowsReserved = map[string]struct{}{
	"con": {}, "prn": {}, "aux": {}, "nul": {},
	"com1": {}, "com2": {}, "com3": {}, "com4": {}, "com5": {}, "com6": {}, "com7": {}, "com8": {}, "com9": {},
	"lpt1": {}, "lpt2": {}, "lpt3": {}, "lpt4": {}, "lpt5": {}, "lpt6": {}, "lpt7": {}, "lpt8": {}, "lpt9": {},
}

// originalKey: "originals/YYYY/MM/DD/<ts-nanosec>/<account>/<name><ext>".
// ext comes from the sniffed content, never from the client's file name.
func originalKey(now time.Time, accountUUID account.UUID, fileName, ext string) string {
	now = now.UTC()
	return fmt.Sprintf(
		"originals/%04d/%02d/%02d/%s/%s/%s%s",
		now.Year(), int(now.Month()), now.Day(),
		now.Format("20060102T150405.000000000Z"),
		strings.ToLower(strings.ReplaceAll(accountUUID.String(), "-", "")),
		sanitizeBaseName(fileName),
		strings.ToLower(ext),
	)
}

// derivativeKey: "dynamic/<image>/<artifact name>".
func derivativeKey(imageUUID uuid.UUID, name string) string {
	return "dynamic/" + imageUUID.String() + "/" + name
}

// sanitizeBaseName makes the file name ASCII and drops its extension.
func sanitizeBaseName(original string) string {
	s := strings.TrimSpace(original)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	if s == "." || s == ".." || s == "/" || s == "" {
		return "image"
	}

	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	s, _, _ = transform.String(t, s)
	s = strings.TrimSuffix(s, path.Ext(s))

	// [a-z0-9], '-' and '_', dot/space → '-'
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z':
			b.WriteRune(r)
			prevDash = false
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
			prevDash = false
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			if !prevDash {
				b.WriteRune('-')
				prevDash = true
			}
		default:
		}
	}
	base := strings.Trim(b.String(), "-")

	if base == "" {
		base = "image"
	}
	if _, bad := windowsReserved[base]; bad {
		base = "_" + base
	}
	for utf8.RuneCountInString(base) > maxBaseNameLen {
		_, size := utf8.DecodeLastRuneInString(base)
		base = base[:len(base)-size]
	}

	return base
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

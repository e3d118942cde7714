package format

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	tsPadRe   = regexp.MustCompile(`\{TS(\d+)\}`)
	randPadRe = regexp.MustCompile(`\{RAND(\d+)\}`)
)

// DefaultInvoiceNumberTemplate yields numbers like INV-123456-001.
const DefaultInvoiceNumberTemplate = "{PREFIX}-{TS6}-{RAND3}"

// FormatInvoiceNumber renders template for one invoice.
//
// Tokens:
//   - {PREFIX}: prefix
//   - {YYYY} {YY} {MM} {DD}: issue date
//   - {TSn}: the last n digits of the issue time in unix milliseconds
//   - {RANDn}: random, reduced modulo 10^n and zero padded to n digits
//
// The function is pure; randomness is supplied by the caller.
func FormatInvoiceNumber(template, prefix string, issuedAt time.Time, random int64) (string, error) {
	if template == "" {
		return "", fmt.Errorf("invoice number template is empty")
	}
	if random < 0 {
		return "", fmt.Errorf("invalid invoice number random segment: %d", random)
	}

	out := template
	out = strings.ReplaceAll(out, "{PREFIX}", prefix)
	out = strings.ReplaceAll(out, "{YYYY}", issuedAt.Format("2006"))
	out = strings.ReplaceAll(out, "{YY}", issuedAt.Format("06"))
	out = strings.ReplaceAll(out, "{MM}", issuedAt.Format("01"))
	out = strings.ReplaceAll(out, "{DD}", issuedAt.Format("02"))

	millis := strconv.FormatInt(issuedAt.UnixMilli(), 10)
	out = tsPadRe.ReplaceAllStringFunc(out, func(m string) string {
		width, ok := tokenWidth(tsPadRe, m)
		if !ok {
			return m
		}
		if len(millis) <= width {
			return fmt.Sprintf("%0*s", width, millis)
		}
		return millis[len(millis)-width:]
	})

	out = randPadRe.ReplaceAllStringFunc(out, func(m string) string {
		width, ok := tokenWidth(randPadRe, m)
		if !ok || width > 18 {
			return m
		}
		mod := int64(1)
		for i := 0; i < width; i++ {
			mod *= 10
		}
		return fmt.Sprintf("%0*d", width, random%mod)
	})

	if strings.Contains(out, "{") || strings.Contains(out, "}") {
		return "", fmt.Errorf("unresolved token in invoice format: %s", out)
	}

	return out, nil
}

func tokenWidth(re *regexp.Regexp, token string) (int, bool) {
	match := re.FindStringSubmatch(token)
	if len(match) != 2 {
		return 0, false
	}
	width, err := strconv.Atoi(match[1])
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}

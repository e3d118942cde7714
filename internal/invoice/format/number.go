package format

import (
	"math/rand/v2"

	"github.com/smallbiznis/invoicebook/internal/clock"
)

// NumberGenerator produces human-readable invoice numbers. Uniqueness is
// best effort; callers check for collisions against stored invoices.
type NumberGenerator struct {
	Template string
	Clock    clock.Clock
	Random   func() int64
}

func NewNumberGenerator(c clock.Clock) *NumberGenerator {
	return &NumberGenerator{
		Template: DefaultInvoiceNumberTemplate,
		Clock:    c,
		Random:   func() int64 { return rand.Int64N(1000) },
	}
}

func (g *NumberGenerator) Next(prefix string) (string, error) {
	return FormatInvoiceNumber(g.Template, prefix, g.Clock.Now(), g.Random())
}

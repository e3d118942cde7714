package format

import (
	"testing"
	"time"

	"github.com/smallbiznis/invoicebook/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatInvoiceNumber_Default(t *testing.T) {
	issuedAt := time.UnixMilli(1700000123456).UTC()

	got, err := FormatInvoiceNumber(DefaultInvoiceNumberTemplate, "INV", issuedAt, 7)
	require.NoError(t, err)
	assert.Equal(t, "INV-123456-007", got)
}

func TestFormatInvoiceNumber_RandomIsReduced(t *testing.T) {
	issuedAt := time.UnixMilli(1700000123456).UTC()

	got, err := FormatInvoiceNumber("{PREFIX}-{RAND3}", "INV", issuedAt, 12345)
	require.NoError(t, err)
	assert.Equal(t, "INV-345", got)
}

func TestFormatInvoiceNumber_DateTokens(t *testing.T) {
	issuedAt := time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC)

	got, err := FormatInvoiceNumber("{PREFIX}{YYYY}{MM}{DD}-{RAND4}", "B", issuedAt, 42)
	require.NoError(t, err)
	assert.Equal(t, "B20240309-0042", got)
}

func TestFormatInvoiceNumber_Errors(t *testing.T) {
	now := time.Now()

	_, err := FormatInvoiceNumber("", "INV", now, 1)
	assert.Error(t, err)

	_, err = FormatInvoiceNumber("{PREFIX}-{SEQ}", "INV", now, 1)
	assert.ErrorContains(t, err, "unresolved token")

	_, err = FormatInvoiceNumber(DefaultInvoiceNumberTemplate, "INV", now, -1)
	assert.Error(t, err)
}

func TestNumberGenerator_Next(t *testing.T) {
	gen := NewNumberGenerator(clock.NewFakeClock(time.UnixMilli(1700000999999)))
	gen.Random = func() int64 { return 1 }

	got, err := gen.Next("INV")
	require.NoError(t, err)
	assert.Equal(t, "INV-999999-001", got)
}

func TestNumberGenerator_DefaultRandomShape(t *testing.T) {
	gen := NewNumberGenerator(clock.NewSystem())

	got, err := gen.Next("INV")
	require.NoError(t, err)
	assert.Regexp(t, `^INV-\d{6}-\d{3}$`, got)
}

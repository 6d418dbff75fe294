package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:         "$0.00",
		5:         "$5.00",
		116.6666:  "$116.67",
		1.005:     "$1.01",
		1234.5:    "$1,234.50",
		1234567.8: "$1,234,567.80",
		-5:        "-$5.00",
		-0.004:    "-$0.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(in), "amount %v", in)
	}
}

func TestFormatPercentage(t *testing.T) {
	cases := map[float64]string{
		0:      "+0.0%",
		12.5:   "+12.5%",
		50:     "+50.0%",
		-3:     "-3.0%",
		33.333: "+33.3%",
		-0.25:  "-0.3%",
		-0.04:  "-0.0%",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPercentage(in), "value %v", in)
	}
}

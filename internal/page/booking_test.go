package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingURL(t *testing.T) {
	got := BookingURL("https://wa.me/", "573001234567", DefaultBookingMessage, "Tour A")
	assert.Equal(t, "https://wa.me/573001234567?text=Hola%2C%20quiero%20reservar%3A%20Tour%20A", got)
}

func TestEncodeURIComponent(t *testing.T) {
	tests := map[string]string{
		"abc-_.!~*'()": "abc-_.!~*'()",
		"a b&c=d":      "a%20b%26c%3Dd",
		"Isla Barú":    "Isla%20Bar%C3%BA",
		"50% + 1/2?#":  "50%25%20%2B%201%2F2%3F%23",
	}
	for in, want := range tests {
		assert.Equal(t, want, encodeURIComponent(in), in)
	}
}

func TestContactPhoneNilState(t *testing.T) {
	assert.Equal(t, "123", ContactPhone(nil, "123"))
}

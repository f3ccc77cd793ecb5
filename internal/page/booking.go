package page

import "strings"

// Booking defaults.
const (
	DefaultBookingBaseURL = "https://wa.me"
	DefaultBookingMessage = "Hola, quiero reservar: "
)

// BookingURL builds the messaging deep link for an entry title.
func BookingURL(baseURL, phone, message, title string) string {
	return strings.TrimRight(baseURL, "/") + "/" + phone + "?text=" + encodeURIComponent(message+title)
}

const upperhex = "0123456789ABCDEF"

// encodeURIComponent percent-encodes UTF-8 bytes of s, leaving letters,
// digits and - _ . ! ~ * ' ( ) as they are.
func encodeURIComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

package catalog

import "strings"

// DefaultPhone is the booking number used until a catalog provides one.
const DefaultPhone = "573001234567"

// ContactPhone returns the digits of the catalog contact phone, or fallback
// when no payload has been loaded or it has no phone.
func ContactPhone(p *Payload, fallback string) string {
	if p == nil || !p.Phone.Truthy() {
		return fallback
	}
	return digitsOnly(p.Phone.String())
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

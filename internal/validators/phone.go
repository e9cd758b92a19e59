package validators

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is used for numbers written without a country prefix.
const DefaultPhoneRegion = "US"

// PhoneNormalizer converts user-entered phone numbers to E.164 so that
// differently formatted inputs of the same number compare equal.
type PhoneNormalizer struct {
	region string
}

func NewPhoneNormalizer(region string) *PhoneNormalizer {
	if region == "" {
		region = DefaultPhoneRegion
	}
	return &PhoneNormalizer{region: strings.ToUpper(region)}
}

// Normalize returns the E.164 form of raw ("+14155550101").
// A blank input yields "" and no error. Inputs that cannot be parsed, or
// that have an impossible length for their region, yield ErrInvalidPhone.
func (n *PhoneNormalizer) Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if len(raw) > MaxPhoneLength {
		return "", ErrInvalidPhone
	}

	num, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return "", ErrInvalidPhone
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

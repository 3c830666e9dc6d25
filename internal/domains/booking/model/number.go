package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"
)

const (
	bookingNumberPrefix   = "BK"
	bookingNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	bookingNumberSuffix   = 6
)

var bookingNumberPattern = regexp.MustCompile(`^BK\d{8}[A-Z0-9]{6}$`)

// NewBookingNumber returns BK, the date as YYYYMMDD and six random characters.
func NewBookingNumber(now time.Time) (string, error) {
	suffix := make([]byte, bookingNumberSuffix)
	max := big.NewInt(int64(len(bookingNumberAlphabet)))

	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}

		suffix[i] = bookingNumberAlphabet[n.Int64()]
	}

	return bookingNumberPrefix + now.Format("20060102") + string(suffix), nil
}

func IsBookingNumber(value string) bool {
	return bookingNumberPattern.MatchString(value)
}

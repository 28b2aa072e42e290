package utils

import (
	"fmt"
	"strings"
)

// CustomerNumberLength is the number of trailing phone digits forming a customer number
const CustomerNumberLength = 5

// PhoneDigits strips everything but digits from phone
func PhoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CustomerNumber derives the customer number from the last five digits of phone
func CustomerNumber(phone string) (string, error) {
	digits := PhoneDigits(phone)
	if len(digits) < CustomerNumberLength {
		return "", fmt.Errorf("phone number %q has fewer than %d digits", phone, CustomerNumberLength)
	}
	return digits[len(digits)-CustomerNumberLength:], nil
}

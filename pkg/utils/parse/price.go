// ABOUTME: Price parsing utilities for Chilean-formatted retail prices
// ABOUTME: Handles thousands dots, comma decimals and separate integer/cents fragments

package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// Price parses a Chilean-formatted price string into a float amount.
// Accepts raw retailer text such as "$ 549.990", "1.299.990" or "12.990,50":
// dots are thousands separators and a comma marks the decimal part. Currency
// symbols and surrounding text are ignored.
func Price(raw string) (float64, error) {
	cleaned := digitsAndSeparators(raw)
	if cleaned == "" {
		return 0, fmt.Errorf("no digits in price %q", raw)
	}

	integer := cleaned
	decimal := ""
	if idx := strings.LastIndex(cleaned, ","); idx >= 0 {
		integer = cleaned[:idx]
		decimal = cleaned[idx+1:]
	}

	integer = strings.ReplaceAll(integer, ".", "")
	integer = strings.ReplaceAll(integer, ",", "")
	if integer == "" {
		integer = "0"
	}

	candidate := integer
	if decimal != "" {
		candidate = integer + "." + decimal
	}

	value, err := strconv.ParseFloat(candidate, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	if value < 0 {
		return 0, fmt.Errorf("negative price %q", raw)
	}
	return value, nil
}

// PriceFromParts combines a separately-rendered integer part and cents part,
// as listing pages often split them into distinct elements. The cents part
// may be empty.
func PriceFromParts(whole, cents string) (float64, error) {
	wholeDigits := strings.ReplaceAll(digitsAndSeparators(whole), ".", "")
	wholeDigits = strings.ReplaceAll(wholeDigits, ",", "")
	if wholeDigits == "" {
		return 0, fmt.Errorf("no digits in price %q", whole)
	}

	centsDigits := digitsOnly(cents)
	candidate := wholeDigits
	if centsDigits != "" {
		candidate = wholeDigits + "." + centsDigits
	}

	value, err := strconv.ParseFloat(candidate, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q/%q: %w", whole, cents, err)
	}
	return value, nil
}

// digitsAndSeparators keeps digits, dots and commas from a raw price string.
func digitsAndSeparators(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

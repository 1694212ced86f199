package labels

import (
	"fmt"
	"strings"

	"github.com/stitchpos/backend/internal/domain/shared"
)

// EAN-13 structure: a GS1 company prefix, a zero-padded item sequence, and
// a trailing check digit, 13 digits in total. Sequences are allocated
// monotonically per shop so printed labels never collide.

const ean13Length = 13

// AllocateEAN13 builds the EAN-13 for the given company prefix and item
// sequence. The prefix plus the padded sequence must come to exactly 12
// digits; the check digit fills the 13th.
func AllocateEAN13(companyPrefix string, sequence int64) (string, error) {
	if companyPrefix == "" {
		return "", shared.NewDomainError("INVALID_PREFIX", "company prefix cannot be empty")
	}
	for _, r := range companyPrefix {
		if r < '0' || r > '9' {
			return "", shared.NewDomainError("INVALID_PREFIX", "company prefix must be numeric")
		}
	}
	if len(companyPrefix) >= ean13Length-1 {
		return "", shared.NewDomainError("INVALID_PREFIX", "company prefix leaves no room for a sequence")
	}
	if sequence < 0 {
		return "", shared.NewDomainError("INVALID_SEQUENCE", "sequence cannot be negative")
	}

	seqDigits := ean13Length - 1 - len(companyPrefix)
	seq := fmt.Sprintf("%0*d", seqDigits, sequence)
	if len(seq) > seqDigits {
		return "", shared.NewDomainError("SEQUENCE_EXHAUSTED",
			fmt.Sprintf("sequence %d does not fit in %d digits", sequence, seqDigits))
	}

	payload := companyPrefix + seq
	return payload + string(rune('0'+checkDigit(payload))), nil
}

// ValidateEAN13 reports whether the string is 13 digits with a correct
// check digit.
func ValidateEAN13(code string) bool {
	if len(code) != ean13Length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return checkDigit(code[:ean13Length-1]) == int(code[ean13Length-1]-'0')
}

// checkDigit computes the EAN-13 check digit for a 12-digit payload.
// Digits in odd positions (1-based) weigh 1, even positions weigh 3.
func checkDigit(payload string) int {
	sum := 0
	for i, r := range payload {
		d := int(r - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	return (10 - sum%10) % 10
}

// EAN-13 module encoding tables. Each digit maps to seven modules; the
// left half uses the L or G table as selected by the first digit's parity
// pattern, the right half always uses R.
var (
	ean13LTable = [10]string{
		"0001101", "0011001", "0010011", "0111101", "0100011",
		"0110001", "0101111", "0111011", "0110111", "0001011",
	}
	ean13GTable = [10]string{
		"0100111", "0110011", "0011011", "0100001", "0011101",
		"0111001", "0000101", "0010001", "0001001", "0010111",
	}
	ean13RTable = [10]string{
		"1110010", "1100110", "1101100", "1000010", "1011100",
		"1001110", "1010000", "1000100", "1001000", "1110100",
	}
	// Parity pattern for the six left-half digits, indexed by the first
	// digit. L is false, G is true.
	ean13Parity = [10][6]bool{
		{false, false, false, false, false, false},
		{false, false, true, false, true, true},
		{false, false, true, true, false, true},
		{false, false, true, true, true, false},
		{false, true, false, false, true, true},
		{false, true, true, false, false, true},
		{false, true, true, true, false, false},
		{false, true, false, true, false, true},
		{false, true, false, true, true, false},
		{false, true, true, false, true, false},
	}
)

// Modules returns the 95-module bar pattern for a valid EAN-13 code as a
// string of '0' and '1'. '1' is a dark module.
func Modules(code string) (string, error) {
	if !ValidateEAN13(code) {
		return "", shared.NewDomainError("INVALID_BARCODE", fmt.Sprintf("not a valid EAN-13 code: %s", code))
	}

	var b strings.Builder
	b.Grow(95)

	first := int(code[0] - '0')
	parity := ean13Parity[first]

	b.WriteString("101") // start guard
	for i := 1; i <= 6; i++ {
		d := int(code[i] - '0')
		if parity[i-1] {
			b.WriteString(ean13GTable[d])
		} else {
			b.WriteString(ean13LTable[d])
		}
	}
	b.WriteString("01010") // center guard
	for i := 7; i <= 12; i++ {
		b.WriteString(ean13RTable[int(code[i]-'0')])
	}
	b.WriteString("101") // end guard

	return b.String(), nil
}

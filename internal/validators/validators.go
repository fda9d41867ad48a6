// Package validators holds the field-level business rules shared by the
// registration forms and the bulk import pipeline: CNPJ check digits,
// Brazilian phone numbers, e-mail shape, invoice numbers and the NCM
// and CFOP fiscal codes.
package validators

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	invoicePattern = regexp.MustCompile(`^[0-9\-/]+$`)
)

// CNPJ validates the 14-digit registration number including both check
// digits. The input may carry the usual mask (12.345.678/0001-90).
func CNPJ(value string) error {
	digits := DigitsOnly(value)
	if len(digits) != 14 {
		return fmt.Errorf("cnpj must have 14 digits")
	}
	if allSameDigit(digits) {
		return fmt.Errorf("cnpj is a repeated-digit sequence")
	}
	weightsFirst := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	if checkDigit(digits[:12], weightsFirst) != int(digits[12]-'0') {
		return fmt.Errorf("cnpj check digit mismatch")
	}
	weightsSecond := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	if checkDigit(digits[:13], weightsSecond) != int(digits[13]-'0') {
		return fmt.Errorf("cnpj check digit mismatch")
	}
	return nil
}

func checkDigit(digits string, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

func allSameDigit(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// Phone validates a Brazilian phone number: 10 or 11 digits including
// the area code, mask characters ignored.
func Phone(value string) error {
	digits := DigitsOnly(value)
	if len(digits) < 10 || len(digits) > 11 {
		return fmt.Errorf("phone must have 10 or 11 digits including area code")
	}
	return nil
}

// Email validates the basic shape of an e-mail address: a single @ and
// a domain carrying at least one dot.
func Email(value string) error {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || !emailPattern.MatchString(trimmed) || strings.Count(trimmed, "@") != 1 {
		return fmt.Errorf("malformed e-mail address")
	}
	return nil
}

// InvoiceNumber validates a fiscal invoice number: at least three
// characters, digits with optional - and / separators.
func InvoiceNumber(value string) error {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) < 3 || !invoicePattern.MatchString(trimmed) {
		return fmt.Errorf("malformed invoice number")
	}
	return nil
}

// NCM validates the 8-digit Mercosur goods classification code. Mask
// characters (8471.30.12) are ignored.
func NCM(value string) error {
	if len(DigitsOnly(value)) != 8 {
		return fmt.Errorf("ncm must have 8 digits")
	}
	return nil
}

// CFOP validates the 4-digit fiscal operation code (e.g. 5102).
func CFOP(value string) error {
	if len(DigitsOnly(value)) != 4 {
		return fmt.Errorf("cfop must have 4 digits")
	}
	return nil
}

// DigitsOnly strips every non-digit rune, undoing CNPJ and phone masks.
func DigitsOnly(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

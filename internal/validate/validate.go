package validate

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegexp  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	cepRegexp    = regexp.MustCompile(`^\d{5}-?\d{3}$`)
	expiryRegexp = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRegexp    = regexp.MustCompile(`^\d{3,4}$`)
	digitsRegexp = regexp.MustCompile(`\D`)
)

// Email reports whether the address is syntactically valid.
func Email(email string) bool {
	return emailRegexp.MatchString(email)
}

// CEP validates a Brazilian postal code (12345-678 or 12345678).
func CEP(cep string) bool {
	return cepRegexp.MatchString(cep)
}

// Phone validates a Brazilian phone number: 10 or 11 digits after stripping
// formatting.
func Phone(phone string) bool {
	digits := digitsRegexp.ReplaceAllString(phone, "")
	return len(digits) >= 10 && len(digits) <= 11
}

// CPF validates a Brazilian CPF via its two check digits.
func CPF(cpf string) bool {
	digits := digitsRegexp.ReplaceAllString(cpf, "")
	if len(digits) != 11 {
		return false
	}
	allSame := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(digits[i]-'0') * (10 - i)
	}
	check1 := 0
	if r := sum % 11; r >= 2 {
		check1 = 11 - r
	}
	if int(digits[9]-'0') != check1 {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(digits[i]-'0') * (11 - i)
	}
	check2 := 0
	if r := sum % 11; r >= 2 {
		check2 = 11 - r
	}
	return int(digits[10]-'0') == check2
}

// CardNumber validates a credit-card number: exactly 16 digits after
// stripping spaces.
func CardNumber(number string) bool {
	digits := digitsRegexp.ReplaceAllString(number, "")
	return len(digits) == 16
}

// CardExpiry validates an MM/YY expiry and rejects dates already past.
func CardExpiry(expiry string, now time.Time) bool {
	if !expiryRegexp.MatchString(expiry) {
		return false
	}
	parts := strings.SplitN(expiry, "/", 2)
	month := int(parts[0][0]-'0')*10 + int(parts[0][1]-'0')
	year := 2000 + int(parts[1][0]-'0')*10 + int(parts[1][1]-'0')
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
	return now.Before(endOfMonth)
}

// CVV validates a 3 or 4 digit card verification value.
func CVV(cvv string) bool {
	return cvvRegexp.MatchString(cvv)
}

// Required reports whether a required field is non-blank.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}

// LegalAge reports whether the birth date is at least 18 years before now.
func LegalAge(birthDate, now time.Time) bool {
	age := now.Year() - birthDate.Year()
	anniversary := birthDate.AddDate(age, 0, 0)
	if anniversary.After(now) {
		age--
	}
	return age >= 18
}

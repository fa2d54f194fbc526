package document

import "fmt"

// The IIN check digit is a weighted sum over the first 11 digits modulo 11.
// When the first pass yields 10 the sum is recomputed with the digits
// rotated into the secondary weight vector.
var (
	iinWeightsPrimary   = [11]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}
	iinWeightsSecondary = [11]int{3, 4, 5, 6, 7, 8, 9, 10, 11, 1, 2}
)

// BirthInfo is the birth date and gender embedded in an IIN.
type BirthInfo struct {
	BirthDate  string
	GenderCode string
}

func iinDigits(iin string) ([12]int, bool) {
	var digits [12]int
	if len(iin) != 12 {
		return digits, false
	}
	for i := 0; i < 12; i++ {
		c := iin[i]
		if c < '0' || c > '9' {
			return digits, false
		}
		digits[i] = int(c - '0')
	}
	return digits, true
}

func weightedCheckDigit(digits [12]int, weights [11]int) int {
	sum := 0
	for i := 0; i < 11; i++ {
		sum += digits[i] * weights[i]
	}
	return sum % 11
}

// ValidateIIN reports whether the given string is a structurally valid
// 12-digit national identification number. Anything that is not exactly
// 12 decimal digits fails immediately.
func ValidateIIN(iin string) bool {
	digits, ok := iinDigits(iin)
	if !ok {
		return false
	}

	check := weightedCheckDigit(digits, iinWeightsPrimary)
	if check == 10 {
		check = weightedCheckDigit(digits, iinWeightsSecondary)
	}
	// A second check digit of 10 can never equal a single decimal digit,
	// so such numbers validate false without a dedicated branch.
	return check == digits[11]
}

// DeriveBirthInfo extracts the birth date and gender encoded in the IIN.
// The 7th digit encodes the birth century and the holder's gender:
// 1-2 for the 1800s, 3-4 for the 1900s, 5-6 for the 2000s, odd for male.
// Any other century digit means nothing can be derived.
func DeriveBirthInfo(iin string) (BirthInfo, bool) {
	digits, ok := iinDigits(iin)
	if !ok {
		return BirthInfo{}, false
	}

	var prefix string
	switch digits[6] {
	case 1, 2:
		prefix = "18"
	case 3, 4:
		prefix = "19"
	case 5, 6:
		prefix = "20"
	default:
		return BirthInfo{}, false
	}

	gender := "0"
	if digits[6]%2 == 1 {
		gender = "1"
	}

	return BirthInfo{
		BirthDate:  fmt.Sprintf("%s.%s.%s%s", iin[4:6], iin[2:4], prefix, iin[0:2]),
		GenderCode: gender,
	}, true
}

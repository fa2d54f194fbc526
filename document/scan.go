package document

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Boilerplate words that appear on the printed page and must never be
// mistaken for a holder name. Covers the field labels in English plus the
// issuing-country terms as they come out of text extraction.
var nameDenylist = map[string]struct{}{
	"PASSPORT": {}, "PASPORT": {}, "REPUBLIC": {}, "KAZAKHSTAN": {},
	"QAZAQSTAN": {}, "RESPUBLIKASY": {}, "KAZ": {},
	"IDENTITY": {}, "CARD": {}, "DOCUMENT": {}, "NUMBER": {},
	"SURNAME": {}, "GIVEN": {}, "NAME": {}, "NAMES": {},
	"NATIONALITY": {}, "DATE": {}, "BIRTH": {}, "PLACE": {},
	"ISSUE": {}, "ISSUING": {}, "EXPIRY": {}, "AUTHORITY": {},
	"TYPE": {}, "CODE": {}, "SEX": {}, "SIGNATURE": {},
	"MINISTRY": {}, "INTERNAL": {}, "AFFAIRS": {},
}

// Issuing authorities as they appear on printed documents. The first one
// doubles as the default when nothing in the text matches.
var knownAuthorities = []string{
	DefaultIssuingAuthority,
	"МВД РЕСПУБЛИКИ КАЗАХСТАН",
	"МИНИСТЕРСТВО ВНУТРЕННИХ ДЕЛ",
	"MINISTRY OF INTERNAL AFFAIRS",
}

var (
	nameTokenRe   = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	docNumberRe   = regexp.MustCompile(`\bN\d{8,9}\b`)
	nationalIdRe  = regexp.MustCompile(`\b\d{12}\b`)
	displayDateRe = regexp.MustCompile(`\b\d{2}\.\d{2}\.\d{4}\b`)
	femaleTokenRe = regexp.MustCompile(`\bF\b`)
	maleTokenRe   = regexp.MustCompile(`\bM\b`)
)

// NormalizeText brings extracted text into NFC form. PDF text extraction
// tends to emit decomposed Cyrillic, which would break every lookup below.
func NormalizeText(text string) string {
	return norm.NFC.String(text)
}

// ScanNames picks the first two plausible name tokens from the text:
// uppercase runs of at least three letters that are not document
// boilerplate. First survivor is the surname, second the given name.
func ScanNames(text string) (surname, givenName string) {
	for _, token := range nameTokenRe.FindAllString(text, -1) {
		if _, skip := nameDenylist[token]; skip {
			continue
		}
		if surname == "" {
			surname = token
			continue
		}
		givenName = token
		break
	}
	return surname, givenName
}

// ScanDocumentNumber finds a printed document number: the series letter N
// followed by eight or nine digits.
func ScanDocumentNumber(text string) string {
	return docNumberRe.FindString(text)
}

// ScanNationalId finds the first standalone run of exactly twelve digits.
func ScanNationalId(text string) string {
	return nationalIdRe.FindString(text)
}

// ScanDateTriple collects every DD.MM.YYYY substring and, when at least
// three are present, assigns them by ascending year: the earliest as birth
// date, then issue, then expiry. This is a positional guess from the usual
// birth < issue < expiry ordering, not a verified match against labels.
func ScanDateTriple(text string) (birthDate, issueDate, expiryDate string) {
	dates := displayDateRe.FindAllString(text, -1)
	if len(dates) < 3 {
		return "", "", ""
	}
	sort.SliceStable(dates, func(i, j int) bool {
		return dates[i][6:] < dates[j][6:]
	})
	return dates[0], dates[1], dates[2]
}

// ScanGender looks for a standalone gender marker, female first.
func ScanGender(text string) string {
	if femaleTokenRe.MatchString(text) || strings.Contains(text, "ЖЕН") {
		return "0"
	}
	if maleTokenRe.MatchString(text) || strings.Contains(text, "МУЖ") {
		return "1"
	}
	return ""
}

// ScanAuthority returns the first known issuing authority mentioned in the
// text, falling back to the country default.
func ScanAuthority(text string) string {
	upper := strings.ToUpper(text)
	for _, authority := range knownAuthorities {
		if strings.Contains(upper, authority) {
			return authority
		}
	}
	return DefaultIssuingAuthority
}

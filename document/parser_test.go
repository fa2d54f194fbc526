package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func passportPageText() string {
	return strings.Join([]string{
		"PASSPORT REPUBLIC OF KAZAKHSTAN",
		"NURLANOV ASKAR",
		"850115301003",
		"15.01.1992 16.02.2010 14.01.2030",
		testPassportNameLine,
		testPassportDataLine,
	}, "\n")
}

func TestParsePassportPage(t *testing.T) {
	record := Parse(passportPageText())

	require.True(t, record.IsValid)
	require.Empty(t, record.Errors)
	require.Empty(t, record.Warnings)

	require.Equal(t, "N12936483", record.DocumentNumber)
	require.Equal(t, "NURLANOV", record.Surname)
	require.Equal(t, "ASKAR ERLANULY", record.GivenName)
	require.Equal(t, "850115301003", record.NationalId)
	require.Equal(t, "1", record.GenderCode)
	require.Equal(t, "KAZ", record.NationalityCode)
	require.Equal(t, DefaultIssuingAuthority, record.IssuingAuthority)

	// Birth and expiry come from the zone; only the issue date is left for
	// the free-text date triple to fill.
	require.Equal(t, "15.01.1992", record.BirthDate)
	require.Equal(t, "16.02.2010", record.IssueDate)
	require.Equal(t, "14.01.2030", record.ExpiryDate)
}

func TestParseMergePrecedence(t *testing.T) {
	// The zone says 15.01.1992; the IIN would derive 15.01.1985 and the
	// date triple would pick the earliest printed year. Neither may
	// overwrite the zone value.
	record := Parse(passportPageText())
	require.Equal(t, "15.01.1992", record.BirthDate)
}

func TestParseIdCardWithoutPrintedDates(t *testing.T) {
	text := strings.Join([]string{
		"ҚАЗАҚСТАН РЕСПУБЛИКАСЫ",
		"ЖЕКЕ КУӘЛІК",
		"NURLANOV ASKAR",
		"N123456789",
		"850115301003",
	}, "\n")

	record := Parse(text)

	require.True(t, record.IsValid)
	require.Empty(t, record.Errors)
	require.Empty(t, record.Warnings)

	require.Equal(t, "N123456789", record.DocumentNumber)
	require.Equal(t, "NURLANOV", record.Surname)
	require.Equal(t, "ASKAR", record.GivenName)

	// No zone and no printed dates: birth date and gender can only come
	// from the IIN derivation.
	require.Equal(t, "15.01.1985", record.BirthDate)
	require.Equal(t, "1", record.GenderCode)
	require.Equal(t, "", record.IssueDate)
	require.Equal(t, "", record.ExpiryDate)
}

func TestParseChecksumMismatchIsAWarning(t *testing.T) {
	text := "NURLANOV ASKAR\nN123456789\n920231350126"

	record := Parse(text)

	require.True(t, record.IsValid)
	require.Empty(t, record.Errors)
	require.Contains(t, record.Warnings, WarnNationalIdChecksum)

	// A failed checksum does not block the derivation either: scans are
	// imperfect and the number itself may still be readable.
	require.Equal(t, "920231350126", record.NationalId)
	require.Equal(t, "31.02.1992", record.BirthDate)
	require.Equal(t, "1", record.GenderCode)
}

func TestParseDerivedBirthDateBeatsDateTriple(t *testing.T) {
	// The IIN stage runs before the free-text date scan, so a derivable
	// IIN supplies the birth date and the triple only fills the rest.
	text := "NURLANOV ASKAR\nN123456789\n850115301003\n01.01.1990 01.01.2010 01.01.2030"

	record := Parse(text)

	require.Equal(t, "15.01.1985", record.BirthDate)
	require.Equal(t, "01.01.2010", record.IssueDate)
	require.Equal(t, "01.01.2030", record.ExpiryDate)
}

func TestParseEmptyInput(t *testing.T) {
	record := Parse("")

	require.False(t, record.IsValid)
	require.Equal(t, []string{ErrDocumentNumberNotFound, ErrBirthDateNotFound}, record.Errors)
	require.Contains(t, record.Warnings, WarnSurnameNotFound)
	require.Contains(t, record.Warnings, WarnGivenNameNotFound)
	require.Contains(t, record.Warnings, WarnNationalIdNotFound)

	require.Equal(t, "", record.DocumentNumber)
	require.Equal(t, "", record.Surname)
	require.Equal(t, "", record.GivenName)
	require.Equal(t, "", record.BirthDate)
	require.Equal(t, "", record.IssueDate)
	require.Equal(t, "", record.ExpiryDate)
	require.Equal(t, "", record.NationalId)
	require.Equal(t, "", record.GenderCode)
	require.Equal(t, DefaultIssuingAuthority, record.IssuingAuthority)
	require.Equal(t, DefaultNationality, record.NationalityCode)
}

func TestParseNonDocumentText(t *testing.T) {
	record := Parse("the quick brown fox jumps over the lazy dog")

	require.False(t, record.IsValid)
	require.Contains(t, record.Errors, ErrDocumentNumberNotFound)
	require.Contains(t, record.Errors, ErrBirthDateNotFound)
}

func TestParseIdempotent(t *testing.T) {
	text := passportPageText()
	first := Parse(text)
	second := Parse(text)
	require.Equal(t, first, second)
}

func TestParseDateTripleOrderingHeuristic(t *testing.T) {
	// Known limitation carried over on purpose: the triple is assigned by
	// ascending year, which misorders documents whose expiry predates the
	// issue year printed elsewhere on the page. Asserted as observed
	// behavior, not as a correctness guarantee.
	text := "NURLANOV ASKAR\nN123456789\n01.01.2030 01.01.1990 01.01.2010"

	record := Parse(text)

	require.Equal(t, "01.01.1990", record.BirthDate)
	require.Equal(t, "01.01.2010", record.IssueDate)
	require.Equal(t, "01.01.2030", record.ExpiryDate)
}

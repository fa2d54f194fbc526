package document

import (
	"regexp"
	"strings"
)

// Minimum trimmed length for a line to be considered part of a
// machine-readable zone. Shorter lines cannot hold a valid zone.
const minMRZLineLength = 30

// MRZFields is the partial result of decoding a machine-readable zone.
// Fields the zone did not yield are empty strings; the caller merges
// them and never treats empty as an error at this stage.
type MRZFields struct {
	DocumentNumber  string
	Surname         string
	GivenName       string
	BirthDate       string
	ExpiryDate      string
	GenderCode      string
	NationalityCode string
}

var (
	idCardPrefixRe = regexp.MustCompile(`^(I<[A-Z]{3}|ID)`)
	mrzNameRe      = regexp.MustCompile(`([A-Z][A-Z<]*)<<([A-Z][A-Z<]*)`)
)

// FormatMRZDate converts a 6-digit YYMMDD zone date to DD.MM.YYYY display
// form. Two-digit years below 50 are taken as 2000s, the rest as 1900s.
// Anything that is not exactly six digits converts to an empty string.
func FormatMRZDate(raw string) string {
	if len(raw) != 6 {
		return ""
	}
	for i := 0; i < 6; i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return ""
		}
	}

	century := "19"
	if (raw[0]-'0')*10+(raw[1]-'0') < 50 {
		century = "20"
	}
	return raw[4:6] + "." + raw[2:4] + "." + century + raw[0:2]
}

// DecodeMRZ locates and decodes a machine-readable zone in the given
// document text. Two layouts are supported, both spanning two lines: the
// national ID card layout (name line starts with I< plus a country code,
// or with ID) and the passport layout (name line starts with P<). The
// first line pair that matches wins; there is no backtracking. When no
// pair matches, a loose surname<<given pattern anywhere in the text still
// yields the name fields. Returns nil when nothing matches at all.
func DecodeMRZ(text string) *MRZFields {
	var candidates []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= minMRZLineLength {
			candidates = append(candidates, line)
		}
	}

	for i := 0; i+1 < len(candidates); i++ {
		nameLine, dataLine := candidates[i], candidates[i+1]

		switch {
		case idCardPrefixRe.MatchString(nameLine):
			return decodeZone(nameLine, dataLine, false)
		case strings.HasPrefix(nameLine, "P<"):
			return decodeZone(nameLine, dataLine, true)
		}
	}

	// No fixed layout matched; the name pattern alone is still worth
	// salvaging from garbled zone text.
	if m := mrzNameRe.FindStringSubmatch(text); m != nil {
		fields := &MRZFields{}
		fields.Surname, fields.GivenName = cleanMRZName(m[1], m[2])
		return fields
	}

	return nil
}

// decodeZone extracts the fixed-column fields from a classified line pair.
// The name line carries the document type, country code and holder names;
// the data line carries the document number and dates at fixed offsets.
func decodeZone(nameLine, dataLine string, passport bool) *MRZFields {
	fields := &MRZFields{}

	// Skip document type and issuing country before matching names.
	if m := mrzNameRe.FindStringSubmatch(nameLine[5:]); m != nil {
		fields.Surname, fields.GivenName = cleanMRZName(m[1], m[2])
	}

	if len(dataLine) < 27 {
		return fields
	}

	fields.DocumentNumber = strings.TrimRight(dataLine[0:9], "<")
	if !passport && fields.DocumentNumber != "" {
		// ID cards carry the bare card number in the zone; the printed
		// document number is the series letter plus those digits.
		fields.DocumentNumber = DefaultSeries + fields.DocumentNumber
	}

	if passport {
		fields.NationalityCode = dataLine[10:13]
	} else {
		fields.NationalityCode = DefaultNationality
	}

	fields.BirthDate = FormatMRZDate(dataLine[13:19])
	fields.ExpiryDate = FormatMRZDate(dataLine[21:27])

	if dataLine[20:21] == "M" {
		fields.GenderCode = "1"
	} else {
		fields.GenderCode = "0"
	}

	return fields
}

// cleanMRZName strips the filler characters from a matched name pair:
// surname parts are joined, given name fillers become single spaces.
func cleanMRZName(surname, given string) (string, string) {
	s := strings.ReplaceAll(surname, "<", "")
	g := regexp.MustCompile(`<+`).ReplaceAllString(given, " ")
	return s, strings.TrimSpace(g)
}

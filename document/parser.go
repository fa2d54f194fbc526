package document

import "log/slog"

// Diagnostic texts collected on the record. Hard errors invalidate the
// record; warnings are informational only.
const (
	ErrDocumentNumberNotFound = "document number not found"
	ErrBirthDateNotFound      = "birth date not found"

	WarnSurnameNotFound    = "surname not found"
	WarnGivenNameNotFound  = "given name not found"
	WarnNationalIdNotFound = "national id not found"
	WarnNationalIdChecksum = "national id checksum mismatch"
)

// Parse extracts a document record from the rendered text of a scanned
// passport or ID card page. It runs a fixed pipeline: zone decoding first,
// then heuristic scans for every field the zone left empty, then the IIN
// checksum and cross-field derivation. A field populated by an earlier
// stage is never overwritten by a later one, except that birth date and
// gender may still be filled from the IIN when both the zone and the
// heuristics came up empty.
//
// Parse never fails: malformed input degrades to a record with the hard
// errors set and all fields empty. It is safe to call concurrently.
func Parse(text string) Record {
	record := NewRecord()
	text = NormalizeText(text)

	if fields := DecodeMRZ(text); fields != nil {
		slog.Debug("decoded machine-readable zone", "document_number", fields.DocumentNumber)
		mergeMRZFields(&record, fields)
	} else {
		slog.Debug("no machine-readable zone found, relying on heuristics")
	}

	if record.Surname == "" || record.GivenName == "" {
		surname, givenName := ScanNames(text)
		if record.Surname == "" {
			record.Surname = surname
		}
		if record.GivenName == "" {
			record.GivenName = givenName
		}
	}
	if record.Surname == "" {
		record.addWarning(WarnSurnameNotFound)
	}
	if record.GivenName == "" {
		record.addWarning(WarnGivenNameNotFound)
	}

	if record.DocumentNumber == "" {
		record.DocumentNumber = ScanDocumentNumber(text)
	}
	if record.DocumentNumber == "" {
		record.addError(ErrDocumentNumberNotFound)
	}

	record.NationalId = ScanNationalId(text)
	if record.NationalId != "" {
		if !ValidateIIN(record.NationalId) {
			slog.Debug("national id failed checksum", "national_id", record.NationalId)
			record.addWarning(WarnNationalIdChecksum)
		}
		// Scans miss the visual-zone dates often enough that the IIN is
		// the only birth date source; checksum failure does not block
		// this since the number itself may still be readable.
		if info, ok := DeriveBirthInfo(record.NationalId); ok {
			if record.BirthDate == "" {
				record.BirthDate = info.BirthDate
			}
			if record.GenderCode == "" {
				record.GenderCode = info.GenderCode
			}
		}
	} else {
		record.addWarning(WarnNationalIdNotFound)
	}

	if record.BirthDate == "" || record.IssueDate == "" || record.ExpiryDate == "" {
		birthDate, issueDate, expiryDate := ScanDateTriple(text)
		if record.BirthDate == "" {
			record.BirthDate = birthDate
		}
		if record.IssueDate == "" {
			record.IssueDate = issueDate
		}
		if record.ExpiryDate == "" {
			record.ExpiryDate = expiryDate
		}
	}

	if record.GenderCode == "" {
		record.GenderCode = ScanGender(text)
	}

	record.IssuingAuthority = ScanAuthority(text)

	if record.BirthDate == "" {
		record.addError(ErrBirthDateNotFound)
	}

	return record
}

// mergeMRZFields copies every non-empty decoded field onto the record
// without overwriting anything already set. Trivially a plain copy on a
// fresh record, but kept merge-shaped so the stages compose.
func mergeMRZFields(record *Record, fields *MRZFields) {
	setIfEmpty(&record.DocumentNumber, fields.DocumentNumber)
	setIfEmpty(&record.Surname, fields.Surname)
	setIfEmpty(&record.GivenName, fields.GivenName)
	setIfEmpty(&record.BirthDate, fields.BirthDate)
	setIfEmpty(&record.ExpiryDate, fields.ExpiryDate)
	setIfEmpty(&record.GenderCode, fields.GenderCode)
	if fields.NationalityCode != "" {
		record.NationalityCode = fields.NationalityCode
	}
}

func setIfEmpty(dst *string, value string) {
	if *dst == "" && value != "" {
		*dst = value
	}
}

package document

// Defaults for documents issued by the Republic of Kazakhstan.
const (
	DefaultIssuingAuthority = "МВД РК"
	DefaultNationality      = "KAZ"
	DefaultSeries           = "N"
)

// Record holds the fields extracted from a single document text.
// It is built incrementally by the parse pipeline and returned as the
// final result; it has no life beyond a single Parse call.
type Record struct {
	DocumentNumber   string `json:"document_number"`
	Surname          string `json:"surname"`
	GivenName        string `json:"given_name"`
	BirthDate        string `json:"birth_date,omitempty"`
	IssueDate        string `json:"issue_date,omitempty"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	NationalId       string `json:"national_id,omitempty"`
	IssuingAuthority string `json:"issuing_authority"`
	// GenderCode is "1" for male, "0" for female, empty when unknown.
	GenderCode      string `json:"gender_code,omitempty"`
	SeriesCode      string `json:"series_code"`
	NationalityCode string `json:"nationality_code"`

	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// NewRecord returns a record with the issuing-country defaults filled in.
func NewRecord() Record {
	return Record{
		IssuingAuthority: DefaultIssuingAuthority,
		SeriesCode:       DefaultSeries,
		NationalityCode:  DefaultNationality,
		IsValid:          true,
		Errors:           []string{},
		Warnings:         []string{},
	}
}

// addError records a hard failure. Any hard failure invalidates the record.
func (r *Record) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

func (r *Record) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

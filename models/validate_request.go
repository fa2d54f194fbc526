package models

type ValidateIdRequest struct {
	Iin string `json:"iin"`
}

type ValidateIdResponse struct {
	Valid bool `json:"valid"`
	// Birth date and gender derived from the number itself, when its
	// century digit allows derivation.
	BirthDate  string `json:"birth_date,omitempty"`
	GenderCode string `json:"gender_code,omitempty"`
}

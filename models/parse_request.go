package models

import "go-document-parser/document"

type ParseRequest struct {
	// SessionId is optional; the server generates one when absent so the
	// result can be fetched again from the history endpoint.
	SessionId string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

type ParseResponse struct {
	SessionId string          `json:"session_id"`
	Record    document.Record `json:"record"`
	// Jwt carries the signed attestation of the record, only present when
	// the record is valid and the server has a signing key configured.
	Jwt string `json:"jwt,omitempty"`
}

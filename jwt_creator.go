package main

import (
	"crypto/rsa"
	"fmt"
	"os"
	"time"

	"go-document-parser/document"

	"github.com/golang-jwt/jwt/v4"
)

type JwtCreator interface {
	CreateRecordJwt(record document.Record) (jwt string, err error)
}

func NewRecordJwtCreator(privateKeyPath string,
	issuerId string,
	validity time.Duration,
) (*DefaultJwtCreator, error) {
	keyBytes, err := os.ReadFile(privateKeyPath)

	if err != nil {
		return nil, err
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)

	if err != nil {
		return nil, err
	}

	return &DefaultJwtCreator{
		issuerId:   issuerId,
		privateKey: privateKey,
		validity:   validity,
	}, nil
}

type DefaultJwtCreator struct {
	privateKey *rsa.PrivateKey
	issuerId   string
	validity   time.Duration
}

// CreateRecordJwt signs the record's attributes so auto-fill clients can
// verify the payload came from this parser. Only valid records are signed.
func (jc *DefaultJwtCreator) CreateRecordJwt(record document.Record) (string, error) {
	if !record.IsValid {
		return "", fmt.Errorf("refusing to sign an invalid record")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":        jc.issuerId,
		"iat":        now.Unix(),
		"exp":        now.Add(jc.validity).Unix(),
		"attributes": recordAttributes(record),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(jc.privateKey)
}

func recordAttributes(record document.Record) map[string]string {
	return map[string]string{
		"documentNumber":   record.DocumentNumber,
		"surname":          record.Surname,
		"givenName":        record.GivenName,
		"birthDate":        record.BirthDate,
		"issueDate":        record.IssueDate,
		"expiryDate":       record.ExpiryDate,
		"nationalId":       record.NationalId,
		"issuingAuthority": record.IssuingAuthority,
		"gender":           record.GenderCode,
		"series":           record.SeriesCode,
		"nationality":      record.NationalityCode,
	}
}

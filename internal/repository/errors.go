package repository

import (
	"errors"

	"github.com/lib/pq"
)

// SQLSTATE codes the audit insert is expected to hit.
const (
	codeUniqueViolation     pq.ErrorCode = "23505"
	codeForeignKeyViolation pq.ErrorCode = "23503"
	codeStringTooLong       pq.ErrorCode = "22001"
)

type ErrorKind string

const (
	ErrorKindDuplicate     ErrorKind = "duplicate"
	ErrorKindForeignKey    ErrorKind = "foreign_key"
	ErrorKindStringTooLong ErrorKind = "string_too_long"
	ErrorKindOther         ErrorKind = "other"
)

// ClassifyError maps a postgres constraint failure to an ErrorKind.
func ClassifyError(err error) ErrorKind {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ErrorKindOther
	}

	switch pqErr.Code {
	case codeUniqueViolation:
		return ErrorKindDuplicate
	case codeForeignKeyViolation:
		return ErrorKindForeignKey
	case codeStringTooLong:
		return ErrorKindStringTooLong
	default:
		return ErrorKindOther
	}
}

// ErrorDetail returns the server supplied detail of a postgres error, if any.
func ErrorDetail(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Detail
	}
	return ""
}

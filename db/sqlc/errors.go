package db

import "github.com/lib/pq"

const (
	DuplicateEntry pq.ErrorCode = "23505"
	CheckViolation pq.ErrorCode = "23514"
	EntryTooLong   pq.ErrorCode = "22001"
)

// IsDuplicate reports whether err is a postgres unique-constraint violation.
func IsDuplicate(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == DuplicateEntry
	}
	return false
}

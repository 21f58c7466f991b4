// Package uuid wraps google/uuid so that UUIDs can be bound directly from
// URI and query parameters by gin.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

type UUID struct {
	google_uuid.UUID
}

var Nil UUID

func New() UUID {
	return UUID{google_uuid.New()}
}

func NewString() string {
	return google_uuid.NewString()
}

// IsNil reports whether the UUID is unset.
func (u UUID) IsNil() bool {
	return u == Nil
}

// UnmarshalParam implements gin's binding.BindUnmarshaler. An empty
// parameter binds to Nil, everything else must parse as a UUID.
func (u *UUID) UnmarshalParam(p string) error {
	if p == "" {
		*u = Nil
		return nil
	}

	parsed, e := google_uuid.Parse(p)
	if e != nil {
		return e
	}

	*u = UUID{parsed}
	return nil
}

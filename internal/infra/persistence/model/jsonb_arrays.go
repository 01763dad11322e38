// Package model defines the GORM persistence models mirroring the database tables.
package model

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// UUIDSlice stores an ordered set of entity references as a JSONB array of
// UUID strings. Keeping both halves of a relation as arrays means the symmetry
// between them is maintained by the service layer inside a transaction, not by
// the schema.
type UUIDSlice []uuid.UUID

// Value serializes the slice to JSONB. A nil slice persists as an empty array
// so containment queries behave uniformly.
func (s UUIDSlice) Value() (driver.Value, error) {
	if s == nil {
		s = UUIDSlice{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshal uuid slice")
	}

	return string(data), nil
}

// Scan deserializes a JSONB array of UUID strings.
func (s *UUIDSlice) Scan(value any) error {
	if value == nil {
		*s = UUIDSlice{}

		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported uuid slice source type: %T", value)
	}

	return errors.Wrap(json.Unmarshal(data, s), "unmarshal uuid slice")
}

// GormDataType tells GORM the column type for migrations.
func (UUIDSlice) GormDataType() string {
	return "jsonb"
}

// StringSlice stores a list of strings as a JSONB array.
type StringSlice []string

// Value serializes the slice to JSONB.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "marshal string slice")
	}

	return string(data), nil
}

// Scan deserializes a JSONB array of strings.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = StringSlice{}

		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.Errorf("unsupported string slice source type: %T", value)
	}

	return errors.Wrap(json.Unmarshal(data, s), "unmarshal string slice")
}

// GormDataType tells GORM the column type for migrations.
func (StringSlice) GormDataType() string {
	return "jsonb"
}

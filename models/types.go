package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is a []string stored as a JSONB column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("models: unsupported scan source for StringList")
}

// Address is the delivery address embedded in an order as JSONB.
type Address struct {
	Street string `json:"street"`
	Apt    string `json:"apt,omitempty"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *Address) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	}
	return errors.New("models: unsupported scan source for Address")
}

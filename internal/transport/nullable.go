package transport

import (
	"bytes"
	"encoding/json"
)

// NullableID is an optional foreign key in a partial update. Set is false when
// the field is absent; Set with a nil Value is an explicit null that clears the link.
type NullableID struct {
	Set   bool
	Value *uint
}

// SomeID is a present, non-null id.
func SomeID(id uint) NullableID {
	return NullableID{Set: true, Value: &id}
}

func (n *NullableID) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

func (n NullableID) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

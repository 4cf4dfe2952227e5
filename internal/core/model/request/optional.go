package request

import "encoding/json"

// Optional decodes a JSON field that may be absent, null or a value.
// Set is true whenever the key appeared; Valid is false for an explicit null.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if string(data) == "null" {
		o.Valid = false
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}

	o.Valid = true

	return nil
}

// Ptr returns the value when present and non-null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}

	v := o.Value
	return &v
}

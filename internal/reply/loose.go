package reply

import (
	"encoding/json"
	"strconv"
	"strings"
)

// looseString accepts a JSON string or number. null, empty strings and any
// other value decode to nil.
type looseString struct {
	value *string
}

func (s *looseString) UnmarshalJSON(b []byte) error {
	s.value = nil
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if strings.TrimSpace(str) != "" {
			s.value = &str
		}
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err == nil {
		v := num.String()
		s.value = &v
	}
	return nil
}

// looseBool accepts a JSON boolean or a "true"/"false" string. Anything else
// decodes to false.
type looseBool bool

func (v *looseBool) UnmarshalJSON(b []byte) error {
	var flag bool
	if err := json.Unmarshal(b, &flag); err == nil {
		*v = looseBool(flag)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		parsed, _ := strconv.ParseBool(strings.TrimSpace(str))
		*v = looseBool(parsed)
		return nil
	}
	*v = false
	return nil
}

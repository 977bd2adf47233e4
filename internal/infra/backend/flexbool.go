package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexBool decodes a JSON boolean that may also arrive as a string ("true"/"false").
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var v bool
	if err := json.Unmarshal(data, &v); err == nil {
		*b = FlexBool(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("flexbool: %s is neither a boolean nor a string", data)
	}
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("flexbool: %q: %w", s, err)
	}
	*b = FlexBool(v)
	return nil
}

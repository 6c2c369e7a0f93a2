package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// Identification is the 64-bit business code of an article. It marshals as a
// decimal string so the value survives JSON consumers that parse numbers as
// floats, and unmarshals from both quoted strings and bare numbers.
type Identification int64

func (i Identification) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(strconv.FormatInt(int64(i), 10))), nil
}

func (i *Identification) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*i = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("identification must be a 64-bit integer: %w", err)
	}
	*i = Identification(v)
	return nil
}

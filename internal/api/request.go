package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// number is a cost field. Clients send JSON numbers, but form-driven
// front-ends often send numeric strings, so both are accepted. null and ""
// decode as zero.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}

	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*n = number(f)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("cost must be a number, got %s", b)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("cost must be a number, got %q", s)
	}
	*n = number(f)
	return nil
}

// planID is a price plan id given as a JSON integer or a numeric string.
type planID int64

func (id *planID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}

	var i int64
	if err := json.Unmarshal(b, &i); err == nil {
		*id = planID(i)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("id must be an integer, got %s", b)
	}
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer, got %q", s)
	}
	*id = planID(i)
	return nil
}

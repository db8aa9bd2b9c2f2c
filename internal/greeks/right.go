package greeks

import (
	"fmt"
	"strings"
)

// Right is the option right: the holder's right to buy (call) or sell (put).
type Right int

const (
	Call Right = iota
	Put
)

// Rights lists both rights in display order.
var Rights = []Right{Call, Put}

func (r Right) String() string {
	switch r {
	case Call:
		return "call"
	case Put:
		return "put"
	}
	return fmt.Sprintf("Right(%d)", int(r))
}

// ParseRight accepts "call", "put", "c" or "p" in any case.
func ParseRight(s string) (Right, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return Call, nil
	case "put", "p":
		return Put, nil
	}
	return 0, fmt.Errorf("invalid option right %q", s)
}

// MarshalText encodes r as "call" or "put".
func (r Right) MarshalText() ([]byte, error) {
	if r != Call && r != Put {
		return nil, fmt.Errorf("invalid option right %d", int(r))
	}
	return []byte(r.String()), nil
}

func (r *Right) UnmarshalText(b []byte) error {
	v, err := ParseRight(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseRights is ParseRight extended with "both" (or the empty string),
// which selects Rights.
func ParseRights(s string) ([]Right, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return []Right{Call, Put}, nil
	}
	r, err := ParseRight(s)
	if err != nil {
		return nil, err
	}
	return []Right{r}, nil
}

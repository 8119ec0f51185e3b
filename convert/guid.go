package convert

import (
	"encoding/hex"
	"fmt"
)

// GUID is a 128-bit identifier in the standard dashed textual form
// (8-4-4-4-12 hex digits). No UUID library appears anywhere in the
// reference corpus (see DESIGN.md), so parsing/formatting is implemented
// directly against encoding/hex.
type GUID [16]byte

// String renders g as "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx".
func (g GUID) String() string {
	var buf [36]byte
	hex.Encode(buf[0:8], g[0:4])
	buf[8] = '-'
	hex.Encode(buf[9:13], g[4:6])
	buf[13] = '-'
	hex.Encode(buf[14:18], g[6:8])
	buf[18] = '-'
	hex.Encode(buf[19:23], g[8:10])
	buf[23] = '-'
	hex.Encode(buf[24:36], g[10:16])
	return string(buf[:])
}

// ParseGUID parses the standard textual form into a GUID.
func ParseGUID(raw string) (GUID, error) {
	if len(raw) != 36 || raw[8] != '-' || raw[13] != '-' || raw[18] != '-' || raw[23] != '-' {
		return GUID{}, fmt.Errorf("convert: invalid GUID %q", raw)
	}
	var g GUID
	segments := [5][2]int{{0, 8}, {9, 13}, {14, 18}, {19, 23}, {24, 36}}
	dst := g[:]
	for _, seg := range segments {
		n, err := hex.Decode(dst, []byte(raw[seg[0]:seg[1]]))
		if err != nil {
			return GUID{}, fmt.Errorf("convert: invalid GUID %q: %w", raw, err)
		}
		dst = dst[n:]
	}
	return g, nil
}

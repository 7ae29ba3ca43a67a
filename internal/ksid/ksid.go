// Package ksid provides K-sortable IDs: 64 bit integers that encode their
// creation time, generate in strictly increasing order, and serialize to a
// compact string that sorts the same way as the integer for IDs of the same
// magnitude.
package ksid

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// ID is a K-sortable identifier. The high bits hold the creation time in 10µs
// intervals since the epoch, the low bits a per-interval slice counter.
type ID int64

const (
	// epoch is 2026-01-01 00:00:00 UTC in 10µs units.
	epoch = 176722560000000

	// sliceBits is the number of low bits reserved for the per-interval
	// counter; sliceMask+1 IDs fit in one 10µs interval per instance set.
	sliceBits = 12
	sliceMask = 1<<sliceBits - 1

	// idEncodedLen is the maximum encoded length (65 bits at 5 bits per char).
	idEncodedLen = 13

	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUV"
)

var (
	idMu             sync.Mutex
	idLastT10us      int64
	idLastSlice      int
	idInstance       int
	idTotalInstances = 1
)

// InitIDSlice partitions the slice counter space across cooperating
// instances so concurrently generated IDs never collide. Instance i of n
// produces slices i, i+n, i+2n, ...
func InitIDSlice(instance, totalInstances int) error {
	if totalInstances <= 0 || totalInstances > sliceMask+1 {
		return fmt.Errorf("totalInstances %d out of range [1, %d]", totalInstances, sliceMask+1)
	}
	if instance < 0 || instance >= totalInstances {
		return fmt.Errorf("instance %d out of range [0, %d)", instance, totalInstances)
	}
	idMu.Lock()
	defer idMu.Unlock()
	idInstance = instance
	idTotalInstances = totalInstances
	return nil
}

// NewID returns a new ID, strictly greater than any previous one from this
// process.
func NewID() ID {
	idMu.Lock()
	defer idMu.Unlock()
	t := time.Now().UnixMicro()/10 - epoch
	if t < idLastT10us {
		// Clock went backwards; keep the last interval.
		t = idLastT10us
	}
	slice := idInstance
	if t == idLastT10us {
		slice = idLastSlice + idTotalInstances
		for slice > sliceMask {
			// Interval exhausted, move to the next one.
			t++
			slice = idInstance
		}
	}
	idLastT10us = t
	idLastSlice = slice
	return newIDFromParts(t, slice)
}

func newIDFromParts(t10us int64, slice int) ID {
	return ID(t10us<<sliceBits | int64(slice))
}

// IsZero reports whether the ID is the zero value.
func (i ID) IsZero() bool {
	return i == 0
}

// Time returns the creation time with 10µs resolution.
func (i ID) Time() time.Time {
	return time.UnixMicro((epoch + int64(i)>>sliceBits) * 10)
}

// Slice returns the per-interval slice counter.
func (i ID) Slice() int {
	return int(int64(i) & sliceMask)
}

// Compare returns -1, 0 or 1 depending on the order of the two IDs.
func (i ID) Compare(other ID) int {
	switch {
	case i < other:
		return -1
	case i > other:
		return 1
	}
	return 0
}

// String encodes the ID in compact upper-case base32hex. Zigzag encoding
// keeps the representation short for small values while remaining
// order-preserving for same-length strings.
func (i ID) String() string {
	v := uint64(i)<<1 ^ uint64(int64(i)>>63)
	if v == 0 {
		return "0"
	}
	var buf [idEncodedLen]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = idAlphabet[v&31]
		v >>= 5
	}
	return string(buf[pos:])
}

// DecodeID parses a string produced by String. The empty string decodes to
// the zero ID.
func DecodeID(s string) (ID, error) {
	if len(s) > idEncodedLen {
		return 0, fmt.Errorf("id too long: %d chars", len(s))
	}
	var v uint64
	for j := range len(s) {
		c := s[j]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'A' && c <= 'V':
			d = uint64(c-'A') + 10
		default:
			return 0, fmt.Errorf("invalid id character %q", c)
		}
		v = v<<5 | d
	}
	return ID(v>>1) ^ -ID(v&1), nil
}

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *ID) UnmarshalText(data []byte) error {
	id, err := DecodeID(string(data))
	if err != nil {
		return err
	}
	*i = id
	return nil
}

// MarshalJSON implements json.Marshaler.
func (i ID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + i.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *ID) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return errors.New("id must be a JSON string")
	}
	return i.UnmarshalText(data[1 : len(data)-1])
}

// IDList is a comma-separated list of IDs in text form.
type IDList []ID

// MarshalText implements encoding.TextMarshaler.
func (l IDList) MarshalText() ([]byte, error) {
	parts := make([]string, len(l))
	for j, id := range l {
		parts[j] = id.String()
	}
	return []byte(strings.Join(parts, ",")), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty parts and zero
// IDs are skipped.
func (l *IDList) UnmarshalText(data []byte) error {
	var out IDList
	for part := range strings.SplitSeq(string(data), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := DecodeID(part)
		if err != nil {
			return err
		}
		if id.IsZero() {
			continue
		}
		out = append(out, id)
	}
	*l = out
	return nil
}

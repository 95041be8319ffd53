package freshtabs

import (
	"encoding/binary"
	"unicode/utf16"
)

// Chromium serializes session command payloads as Pickles: a uint32 payload size
// followed by fields that each start on a 4-byte boundary. The header may carry extra
// vendor data, so its length is derived from the stored payload size rather than
// assumed. Desktop Chromium writes native byte order; every supported target is
// little-endian.

const pickleAlignment = 4

type pickle struct {
	data       []byte
	payloadOff int
}

// pickleFromBytes validates the size header. The derived header length must be
// nonzero, 4-aligned and inside the buffer, otherwise the data is not usable as a
// pickle at all.
func pickleFromBytes(data []byte) (pickle, bool) {
	if len(data) < pickleAlignment {
		return pickle{}, false
	}
	payloadSize := int64(binary.LittleEndian.Uint32(data))
	headerSize := int64(len(data)) - payloadSize
	if headerSize <= 0 || headerSize > int64(len(data)) {
		return pickle{}, false
	}
	if headerSize%pickleAlignment != 0 {
		return pickle{}, false
	}
	return pickle{data: data, payloadOff: int(headerSize)}, true
}

func (p pickle) iterator() *pickleIterator {
	return &pickleIterator{payload: p.data[p.payloadOff:]}
}

type pickleIterator struct {
	payload []byte
	pos     int
}

func alignInt(i, alignment int) int {
	return i + (alignment-(i%alignment))%alignment
}

// advance reserves numBytes at the current position. The position moves by the
// aligned amount, but only numBytes need to fit: a value ending flush with the
// payload still reads.
func (it *pickleIterator) advance(numBytes int) (int, bool) {
	if numBytes < 0 || len(it.payload)-it.pos < numBytes {
		return 0, false
	}
	off := it.pos
	it.pos += alignInt(numBytes, pickleAlignment)
	return off, true
}

func (it *pickleIterator) readInt() (int32, bool) {
	off, ok := it.advance(4)
	if !ok {
		return 0, false
	}
	return int32(binary.LittleEndian.Uint32(it.payload[off:])), true
}

func (it *pickleIterator) readBool() (bool, bool) {
	off, ok := it.advance(1)
	if !ok {
		return false, false
	}
	return it.payload[off] != 0, true
}

// readString reads an int byte length followed by UTF-8 bytes.
func (it *pickleIterator) readString() (string, bool) {
	n, ok := it.readInt()
	if !ok {
		return "", false
	}
	off, ok := it.advance(int(n))
	if !ok {
		return "", false
	}
	if n == 0 {
		return "", true
	}
	return string(it.payload[off : off+int(n)]), true
}

// readString16 reads an int count of UTF-16 code units followed by that many
// little-endian pairs.
func (it *pickleIterator) readString16() (string, bool) {
	n, ok := it.readInt()
	if !ok {
		return "", false
	}
	if n < 0 {
		return "", false
	}
	byteLen := int(n) * 2
	off, ok := it.advance(byteLen)
	if !ok {
		return "", false
	}
	if n == 0 {
		return "", true
	}
	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(it.payload[off+2*i:])
	}
	return string(utf16.Decode(units)), true
}

// readData reads an int byte length followed by raw bytes (Chromium's "binary
// string", used for serialized page state).
func (it *pickleIterator) readData() ([]byte, bool) {
	n, ok := it.readInt()
	if !ok {
		return nil, false
	}
	off, ok := it.advance(int(n))
	if !ok {
		return nil, false
	}
	return it.payload[off : off+int(n)], true
}

package freshtabs

import (
	"encoding/binary"
	"fmt"
)

// Chromium session files (SNSS) start with an 8-byte header (the ASCII signature
// "SNSS" and a uint32 version) followed by a flat stream of commands. Each command
// is a uint16 size, a one-byte command id and size-1 bytes of payload. The browser
// appends commands and tolerates a torn final write, so a zero size or a truncated
// trailing command ends the stream without being an error.

const (
	snssSignature  = 0x53534E53 // "SNSS"
	snssHeaderSize = 8

	snssVersionPlain  = 1
	snssVersionMarker = 3
)

type sessionCommand struct {
	id       uint8
	contents []byte
}

func hasSessionSignature(data []byte) bool {
	return len(data) >= snssHeaderSize && binary.LittleEndian.Uint32(data) == snssSignature
}

// readSessionCommands splits a signature-checked session file into its commands.
// Unknown versions are still attempted; version 2 (encrypted payloads) will simply
// yield commands that fail to decode downstream.
func readSessionCommands(data []byte) ([]sessionCommand, []string) {
	var warnings []string

	version := binary.LittleEndian.Uint32(data[4:8])
	if version != snssVersionPlain && version != snssVersionMarker {
		warnings = append(warnings, fmt.Sprintf("freshtabs: unexpected session file version %d", version))
	}

	var commands []sessionCommand
	pos := snssHeaderSize
	for {
		if len(data)-pos < 2 {
			break
		}
		size := int(binary.LittleEndian.Uint16(data[pos:]))
		pos += 2
		if size == 0 {
			// Empty command: the written stream ends here.
			break
		}
		if size > len(data)-pos {
			// Assume the last chunk of an in-progress write was lost.
			break
		}
		commands = append(commands, sessionCommand{
			id:       data[pos],
			contents: data[pos+1 : pos+size],
		})
		pos += size
	}
	return commands, warnings
}

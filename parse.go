package freshtabs

import (
	"errors"
	"fmt"
)

// ErrTooShort is returned when the input is empty or shorter than a session
// file header, i.e. it cannot be a session file of any version.
var ErrTooShort = errors.New("freshtabs: input shorter than a session file header")

// ErrNoTabData is returned when the input carries no session signature and the
// heuristic scanner finds no URL-shaped strings either. It distinguishes "not a
// session file" from a session file that simply has no tabs, which yields zero
// records and a nil error.
var ErrNoTabData = errors.New("freshtabs: no tab data recognized")

// Parse extracts tab records from raw session file bytes. Files with the
// session signature are parsed structurally; the command vocabulary is
// auto-detected by trying the tab restore service first and falling back to
// the session service. Anything else goes through the heuristic string
// scanner, so a plain text file with an embedded URL still yields a record.
//
// Parse is a pure function: the same bytes always produce the same records.
// Entries that fail to decode are skipped and reported in the warnings.
func Parse(data []byte) ([]Record, []string, error) {
	out, err := parseSession(data, "", "")
	return out.records, out.warnings, err
}

// ParseService is Parse with a fixed command vocabulary. An empty service
// behaves like Parse.
func ParseService(data []byte, svc Service) ([]Record, []string, error) {
	out, err := parseSession(data, svc, "")
	return out.records, out.warnings, err
}

type parseOutcome struct {
	records  []Record
	warnings []string

	// service is the vocabulary that produced the records; empty when the
	// heuristic scanner did.
	service  Service
	fromScan bool
}

// parseSession decodes a session file. svc forces the command vocabulary; when
// it is empty, preferred (defaulting to the tab restore service) is tried
// first and the other vocabulary is used if the first yields nothing.
func parseSession(data []byte, svc, preferred Service) (parseOutcome, error) {
	if len(data) < snssHeaderSize {
		return parseOutcome{}, ErrTooShort
	}

	if !hasSessionSignature(data) {
		records := scanRecords(data)
		if len(records) == 0 {
			return parseOutcome{}, ErrNoTabData
		}
		return parseOutcome{records: records, fromScan: true}, nil
	}

	if svc != "" {
		records, warnings := parseCommands(data, svc)
		return parseOutcome{records: records, warnings: warnings, service: svc}, nil
	}

	first := preferred
	if first == "" {
		first = ServiceTabs
	}
	records, warnings := parseCommands(data, first)
	if len(records) > 0 {
		return parseOutcome{records: records, warnings: warnings, service: first}, nil
	}

	second := ServiceSession
	if first == ServiceSession {
		second = ServiceTabs
	}
	if altRecords, altWarnings := parseCommands(data, second); len(altRecords) > 0 {
		return parseOutcome{records: altRecords, warnings: altWarnings, service: second}, nil
	}

	return parseOutcome{warnings: warnings, service: first}, nil
}

func parseCommands(data []byte, svc Service) ([]Record, []string) {
	commands, warnings := readSessionCommands(data)
	navID := navigationCommandID(svc)

	var records []Record
	for i, cmd := range commands {
		if cmd.id != navID {
			continue
		}
		rec, ok := decodeNavigation(cmd.contents)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("freshtabs: skipping undecodable navigation command #%d", i))
			continue
		}
		records = append(records, rec)
	}
	return records, warnings
}

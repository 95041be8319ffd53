package freshtabs

import (
	"encoding/binary"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

// Heuristic extraction for content that does not carry the session signature. The
// scanner treats any decodable text run bounded by non-text bytes as a candidate
// string, picks out URL-shaped candidates, and pairs each URL with the nearest title
// candidate that follows it, since inside session payloads the URL field precedes
// the title field. Results are best-effort: any blob with embedded URL strings
// produces records.

const (
	// scanMinRun is the minimum candidate length in characters.
	scanMinRun = 3
	// scanPairWindow is how far past a URL's end a title may start and still pair.
	scanPairWindow = 256
)

type candidateString struct {
	off  int
	text string
	// wide marks UTF-16LE runs. Only narrow runs can contain URL fields.
	wide bool
}

func printableASCII(b byte) bool {
	return b >= 0x20 && b < 0x7F
}

// extractCandidateStrings walks the byte stream and collects text runs with their
// offsets. UTF-16LE runs are recognized as (printable ASCII, 0x00) pairs; everything
// else is tried as printable UTF-8. This is the only function that knows how text is
// laid out between binary noise; the pairing logic above it is format-agnostic.
func extractCandidateStrings(data []byte) []candidateString {
	var out []candidateString
	i := 0
	for i < len(data) {
		if n := wideRunLen(data[i:]); n >= scanMinRun {
			units := make([]uint16, n)
			for j := range units {
				units[j] = binary.LittleEndian.Uint16(data[i+2*j:])
			}
			out = append(out, candidateString{off: i, text: string(utf16.Decode(units)), wide: true})
			i += 2 * n
			continue
		}
		if n := narrowRunLen(data[i:]); n > 0 {
			if utf8.RuneCount(data[i:i+n]) >= scanMinRun {
				out = append(out, candidateString{off: i, text: string(data[i : i+n])})
			}
			i += n
			continue
		}
		i++
	}
	return out
}

// wideRunLen counts leading (printable ASCII, NUL) pairs.
func wideRunLen(data []byte) int {
	n := 0
	for 2*n+1 < len(data) && printableASCII(data[2*n]) && data[2*n+1] == 0 {
		n++
	}
	return n
}

// narrowRunLen counts leading bytes forming printable UTF-8.
func narrowRunLen(data []byte) int {
	n := 0
	for n < len(data) {
		r, size := utf8.DecodeRune(data[n:])
		if r == utf8.RuneError && size <= 1 {
			break
		}
		if !unicode.IsPrint(r) {
			break
		}
		n += size
	}
	return n
}

var scanURLRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s"'<>]+`)

const scanURLTrailingJunk = `.,;:!?)]>'"`

// scanRecords recovers records from arbitrary bytes. Returns nil when no URL-shaped
// candidate exists at all.
func scanRecords(data []byte) []Record {
	candidates := extractCandidateStrings(data)

	var urls []candidateString
	var titles []candidateString
	for _, c := range candidates {
		if c.wide {
			titles = append(titles, c)
			continue
		}
		matches := scanURLRe.FindAllStringIndex(c.text, -1)
		if len(matches) == 0 {
			titles = append(titles, c)
			continue
		}
		for _, m := range matches {
			u := strings.TrimRight(c.text[m[0]:m[1]], scanURLTrailingJunk)
			if strings.HasSuffix(u, "://") {
				continue
			}
			urls = append(urls, candidateString{off: c.off + m[0], text: u})
		}
	}
	if len(urls) == 0 {
		return nil
	}

	consumed := make([]bool, len(titles))
	out := make([]Record, 0, len(urls))
	for i, u := range urls {
		end := u.off + len(u.text)
		nextURL := len(data) + 1
		if i+1 < len(urls) {
			nextURL = urls[i+1].off
		}

		title := ""
		for j, t := range titles {
			if consumed[j] || t.off < end {
				continue
			}
			if t.off-end > scanPairWindow || t.off >= nextURL {
				break
			}
			title = t.text
			consumed[j] = true
			break
		}

		out = append(out, Record{Title: title, URL: u.text, TabID: -1, Index: -1})
	}
	return out
}

package freshtabs

import "regexp"

// The two services that write session files share the navigation payload layout but
// number their commands differently. Only the navigation update command matters here;
// everything else (window bounds, pinned state, app ids, ...) carries no tab text.
const (
	tabsCommandUpdateNavigation    = 1
	sessionCommandUpdateNavigation = 6
)

func navigationCommandID(svc Service) uint8 {
	if svc == ServiceSession {
		return sessionCommandUpdateNavigation
	}
	return tabsCommandUpdateNavigation
}

// recordSchemeRe accepts any URL with an RFC 3986 scheme prefix, which also covers
// non-hierarchical virtual URLs like "about:blank".
var recordSchemeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*:`)

// decodeNavigation decodes a navigation update payload: tab id, index, virtual URL,
// title, serialized page state, transition type, then an optional tail (type mask,
// referrer, referrer policy, original request URL, UA override) that later browser
// versions added. Absence of anything after the title is tolerated; a record is only
// rejected when the fields through the title cannot be read or the URL is not
// URL-shaped.
func decodeNavigation(contents []byte) (Record, bool) {
	p, ok := pickleFromBytes(contents)
	if !ok {
		return Record{}, false
	}
	it := p.iterator()

	tabID, ok := it.readInt()
	if !ok {
		return Record{}, false
	}
	index, ok := it.readInt()
	if !ok {
		return Record{}, false
	}
	url, ok := it.readString()
	if !ok {
		return Record{}, false
	}
	title, ok := it.readString16()
	if !ok {
		return Record{}, false
	}
	if url == "" || !recordSchemeRe.MatchString(url) {
		return Record{}, false
	}

	// Best-effort tail. Older files stop after the transition type or earlier.
	if _, ok := it.readData(); ok {
		if _, ok := it.readInt(); ok {
			if _, ok := it.readInt(); ok { // type mask
				_, _ = it.readString() // referrer spec
				_, _ = it.readInt()    // referrer policy
				_, _ = it.readString() // original request URL
				_, _ = it.readBool()   // user agent override
			}
		}
	}

	return Record{
		Title: title,
		URL:   url,
		TabID: int(tabID),
		Index: int(index),
	}, true
}

package freshtabs

// Browser identifies a session-file source. All of these are Chromium-family and
// share the same on-disk session format.
type Browser string

const (
	// BrowserChrome is Google Chrome.
	BrowserChrome Browser = "chrome"
	// BrowserChromium is Chromium.
	BrowserChromium Browser = "chromium"
	// BrowserEdge is Microsoft Edge.
	BrowserEdge Browser = "edge"
	// BrowserBrave is Brave Browser.
	BrowserBrave Browser = "brave"
	// BrowserVivaldi is Vivaldi.
	BrowserVivaldi Browser = "vivaldi"
	// BrowserOpera is Opera.
	BrowserOpera Browser = "opera"
)

// Service identifies which browser service wrote a session file. The container format
// is the same for both; only the command vocabulary differs.
type Service string

const (
	// ServiceTabs is the tab restore service ("Current Tabs", "Last Tabs", Tabs_*).
	ServiceTabs Service = "tabs"
	// ServiceSession is the session service ("Current Session", "Last Session", Session_*).
	ServiceSession Service = "session"
)

// Record is one extracted tab navigation.
type Record struct {
	// Title is the page title. Empty when the browser had not stored one.
	Title string
	// URL is the navigation's virtual URL. Never empty for a valid record.
	URL string

	// TabID and Index locate the navigation inside the session (the browser's tab id
	// and the entry's position in that tab's history). Both are -1 for records
	// produced by the heuristic scanner, which has no structure to read them from.
	TabID int
	Index int
}

// Source describes where a result's records came from.
type Source struct {
	Browser   Browser
	Profile   string
	Service   Service
	StorePath string

	// FromScan is true when the file did not carry the session signature and records
	// were recovered by the heuristic string scanner instead.
	FromScan bool
}

// Result is returned by Read.
type Result struct {
	Records  []Record
	Warnings []string
	Source   Source
}

// Options configures session reading.
type Options struct {
	// Path is an explicit session file path. If empty, Browser must be set.
	Path string

	// Browser selects a browser whose default session file is located automatically.
	Browser Browser

	// Profile narrows discovery to one profile: a profile name (e.g. "Default"),
	// a profile directory, or an explicit session file path.
	Profile string

	// Service forces the command vocabulary. If empty it is inferred from the file
	// name, falling back to whichever vocabulary yields records.
	Service Service

	// FillTitles looks up empty titles in the profile's History database.
	FillTitles bool

	// HistoryDB overrides the History database path used by FillTitles. If empty,
	// the database is looked for next to the session file.
	HistoryDB string

	// Unique drops records whose (title, URL) pair was already emitted.
	Unique bool
}

// DefaultBrowsers returns the default discovery order.
func DefaultBrowsers() []Browser {
	return []Browser{
		BrowserChrome,
		BrowserChromium,
		BrowserEdge,
		BrowserBrave,
		BrowserVivaldi,
		BrowserOpera,
	}
}

package freshtabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSessionFileForProfile_RankOrder(t *testing.T) {
	profile := t.TempDir()

	if _, _, ok := sessionFileForProfile(profile); ok {
		t.Fatal("empty profile dir should have no session file")
	}

	last := writeTestFile(t, profile, "Last Tabs", tabsFileBytes())
	if p, svc, ok := sessionFileForProfile(profile); !ok || p != last || svc != ServiceTabs {
		t.Fatalf("got %q %q %v", p, svc, ok)
	}

	current := writeTestFile(t, profile, "Current Tabs", tabsFileBytes())
	if p, _, _ := sessionFileForProfile(profile); p != current {
		t.Fatalf("Current Tabs should beat Last Tabs: %q", p)
	}

	writeTestFile(t, profile, filepath.Join("Sessions", "Tabs_13300000000000001"), tabsFileBytes())
	newest := writeTestFile(t, profile, filepath.Join("Sessions", "Tabs_13300000000000002"), tabsFileBytes())
	if p, _, _ := sessionFileForProfile(profile); p != newest {
		t.Fatalf("newest timestamped store should win: %q", p)
	}
}

func TestSessionFileForProfile_FallsBackToSessionService(t *testing.T) {
	profile := t.TempDir()
	path := writeTestFile(t, profile, "Current Session", sessionFileBytes(snssVersionPlain))

	p, svc, ok := sessionFileForProfile(profile)
	if !ok || p != path || svc != ServiceSession {
		t.Fatalf("got %q %q %v", p, svc, ok)
	}

	tabs := writeTestFile(t, profile, filepath.Join("Sessions", "Tabs_13300000000000001"), tabsFileBytes())
	if p, svc, _ := sessionFileForProfile(profile); p != tabs || svc != ServiceTabs {
		t.Fatalf("any tab store should beat session stores: %q %q", p, svc)
	}
}

func TestResolveStoreFromOverride_ExplicitFile(t *testing.T) {
	profile := t.TempDir()
	path := writeTestFile(t, profile, "Current Tabs", tabsFileBytes())

	stores, warnings := resolveStoreFromOverride(BrowserChrome, path)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(stores) != 1 {
		t.Fatalf("got %+v", stores)
	}
	st := stores[0]
	if st.path != path || st.service != ServiceTabs || st.profile != filepath.Base(profile) {
		t.Fatalf("store: %+v", st)
	}
}

func TestResolveStoreFromOverride_ExplicitFileInSessionsDir(t *testing.T) {
	profile := t.TempDir()
	path := writeTestFile(t, profile, filepath.Join("Sessions", "Tabs_13300000000000001"), tabsFileBytes())

	stores, _ := resolveStoreFromOverride(BrowserChrome, path)
	if len(stores) != 1 {
		t.Fatalf("got %+v", stores)
	}
	if stores[0].profile != filepath.Base(profile) {
		t.Fatalf("profile should name the dir above Sessions: %+v", stores[0])
	}
}

func TestResolveStoreFromOverride_ProfileDir(t *testing.T) {
	profile := t.TempDir()
	path := writeTestFile(t, profile, "Current Tabs", tabsFileBytes())

	stores, _ := resolveStoreFromOverride(BrowserChrome, profile)
	if len(stores) != 1 || stores[0].path != path {
		t.Fatalf("got %+v", stores)
	}
}

func TestResolveStoreFromOverride_MissingProfileWarns(t *testing.T) {
	stores, warnings := resolveStoreFromOverride(BrowserChrome, filepath.Join(t.TempDir(), "gone"))
	if len(stores) != 0 {
		t.Fatalf("got %+v", stores)
	}
	if len(warnings) == 0 {
		t.Fatal("expected a not-found warning")
	}
}

func TestNewestStore(t *testing.T) {
	dir := t.TempDir()
	older := writeTestFile(t, dir, "a", []byte("x"))
	newer := writeTestFile(t, dir, "b", []byte("y"))

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	stores := []sessionStore{{path: older}, {path: newer}}
	if st := newestStore(stores); st.path != newer {
		t.Fatalf("got %q", st.path)
	}
	stores = []sessionStore{{path: newer}, {path: older}}
	if st := newestStore(stores); st.path != newer {
		t.Fatalf("order must not matter: %q", st.path)
	}
}

func TestNewestTimestamped(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "Tabs_13300000000000001", []byte("a"))
	want := writeTestFile(t, dir, "Tabs_13300000000000009", []byte("b"))

	if got := newestTimestamped(filepath.Join(dir, "Tabs_*")); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := newestTimestamped(filepath.Join(dir, "Session_*")); got != "" {
		t.Fatalf("unexpected match %q", got)
	}
}

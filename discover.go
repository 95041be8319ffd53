package freshtabs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

type sessionStore struct {
	path      string
	userData  string
	profile   string
	service   Service
	isDefault bool
}

// Locate discovers session stores for the given browsers (DefaultBrowsers when
// empty) and returns one Source per profile that has one, in browser order.
func Locate(browsers []Browser) ([]Source, []string) {
	if len(browsers) == 0 {
		browsers = DefaultBrowsers()
	}
	browsers = slices.Compact(browsers)

	var out []Source
	var warnings []string
	for _, b := range browsers {
		stores, w := resolveStores(b, "")
		warnings = append(warnings, w...)
		for _, st := range stores {
			out = append(out, Source{
				Browser:   b,
				Profile:   st.profile,
				Service:   st.service,
				StorePath: st.path,
			})
		}
	}
	return out, warnings
}

func resolveStores(b Browser, profileOverride string) ([]sessionStore, []string) {
	if profileOverride != "" {
		st, warnings := resolveStoreFromOverride(b, profileOverride)
		if len(st) > 0 {
			return st, warnings
		}
		return nil, warnings
	}

	roots := userDataDirs(b)
	var out []sessionStore
	var warnings []string
	for _, root := range roots {
		st, w := resolveStoresFromUserDataDir(b, root)
		warnings = append(warnings, w...)
		out = append(out, st...)
	}
	return out, warnings
}

func resolveStoresFromUserDataDir(b Browser, userDataDir string) ([]sessionStore, []string) {
	localStatePath := filepath.Join(userDataDir, "Local State")
	localStateBytes, err := os.ReadFile(localStatePath)
	if err != nil {
		return nil, nil
	}

	var localState struct {
		Profile struct {
			InfoCache map[string]struct {
				IsUsingDefaultName bool `json:"is_using_default_name"`
				Name               string
			} `json:"info_cache"`
		} `json:"profile"`
	}
	if err := json.Unmarshal(localStateBytes, &localState); err != nil {
		// Fallback: still probe Default.
		return probeDefaultStores(b, userDataDir), []string{fmt.Sprintf("freshtabs: failed to parse Local State (%s): %v", userDataDir, err)}
	}

	profDirs := make([]string, 0, len(localState.Profile.InfoCache))
	for profDir := range localState.Profile.InfoCache {
		profDirs = append(profDirs, profDir)
	}
	slices.Sort(profDirs)

	var out []sessionStore
	for _, profDir := range profDirs {
		prof := localState.Profile.InfoCache[profDir]
		out = append(out, storesForProfileDir(b, userDataDir, profDir, prof.Name, prof.IsUsingDefaultName)...)
	}
	return out, nil
}

func probeDefaultStores(b Browser, userDataDir string) []sessionStore {
	return storesForProfileDir(b, userDataDir, "Default", "Default", true)
}

func storesForProfileDir(b Browser, userDataDir string, profDir string, profName string, isDefault bool) []sessionStore {
	_ = b
	path, svc, ok := sessionFileForProfile(filepath.Join(userDataDir, profDir))
	if !ok {
		return nil
	}
	return []sessionStore{{
		path:      path,
		userData:  userDataDir,
		profile:   profName,
		service:   svc,
		isDefault: isDefault,
	}}
}

// sessionFileForProfile picks the best session file in a profile directory.
// Tab stores come first since they describe open tabs directly, newest
// timestamped Sessions/ entries beat the legacy fixed names, and "Last"
// snapshots are only used when nothing current exists.
func sessionFileForProfile(profileDir string) (string, Service, bool) {
	if p := newestTimestamped(filepath.Join(profileDir, "Sessions", "Tabs_*")); p != "" {
		return p, ServiceTabs, true
	}
	for _, name := range []string{"Current Tabs", "Last Tabs"} {
		if p := filepath.Join(profileDir, name); fileExists(p) {
			return p, ServiceTabs, true
		}
	}
	if p := newestTimestamped(filepath.Join(profileDir, "Sessions", "Session_*")); p != "" {
		return p, ServiceSession, true
	}
	for _, name := range []string{"Current Session", "Last Session"} {
		if p := filepath.Join(profileDir, name); fileExists(p) {
			return p, ServiceSession, true
		}
	}
	return "", "", false
}

// newestTimestamped returns the lexicographically greatest match, which for
// Chromium's fixed-width Tabs_<timestamp> names is the newest one.
func newestTimestamped(pattern string) string {
	matches, err := filepath.Glob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	slices.Sort(matches)
	for i := len(matches) - 1; i >= 0; i-- {
		if fileExists(matches[i]) {
			return matches[i]
		}
	}
	return ""
}

func newestStore(stores []sessionStore) sessionStore {
	best := stores[0]
	bestTime := fileModTime(best.path)
	for _, st := range stores[1:] {
		if t := fileModTime(st.path); t.After(bestTime) {
			best = st
			bestTime = t
		}
	}
	return best
}

func resolveStoreFromOverride(b Browser, override string) ([]sessionStore, []string) {
	override = strings.TrimSpace(override)
	if override == "" {
		return nil, nil
	}

	// 1) Explicit file/directory.
	if fi, err := os.Stat(override); err == nil {
		if fi.IsDir() {
			return resolveFromProfileDir(b, override), nil
		}
		return resolveFromStorePath(b, override)
	}

	// 2) Treat as profile name across known roots.
	var out []sessionStore
	roots := userDataDirs(b)
	for _, root := range roots {
		out = append(out, storesForProfileDir(b, root, override, override, false)...)
	}
	if len(out) == 0 {
		return nil, []string{fmt.Sprintf("freshtabs: %s profile %q not found", b, override)}
	}
	return out, nil
}

func resolveFromProfileDir(b Browser, profileDir string) []sessionStore {
	_ = b
	path, svc, ok := sessionFileForProfile(profileDir)
	if !ok {
		return nil
	}
	return []sessionStore{{
		path:     path,
		userData: filepath.Dir(profileDir),
		profile:  filepath.Base(profileDir),
		service:  svc,
	}}
}

func resolveFromStorePath(b Browser, storePath string) ([]sessionStore, []string) {
	if !fileExists(storePath) {
		return nil, []string{fmt.Sprintf("freshtabs: %s session file not found at %q", b, storePath)}
	}

	dir := filepath.Dir(storePath)
	if filepath.Base(dir) == "Sessions" {
		dir = filepath.Dir(dir)
	}
	return []sessionStore{{
		path:     storePath,
		userData: filepath.Dir(dir),
		profile:  filepath.Base(dir),
		service:  serviceForFilename(storePath),
	}}, nil
}

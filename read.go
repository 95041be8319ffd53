package freshtabs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoSource is returned when neither Path nor Browser is set.
var ErrNoSource = errors.New("freshtabs: Path or Browser required")

// Read loads the configured session store and returns its tab records.
func Read(ctx context.Context, opts Options) (Result, error) {
	src, warnings, err := resolveSource(opts)
	if err != nil {
		return Result{Warnings: warnings}, err
	}

	data, err := os.ReadFile(src.StorePath)
	if err != nil {
		return Result{Warnings: warnings, Source: src}, fmt.Errorf("freshtabs: reading session store: %w", err)
	}

	out, err := parseSession(data, opts.Service, src.Service)
	warnings = append(warnings, out.warnings...)
	if err != nil {
		return Result{Warnings: warnings, Source: src}, err
	}
	src.Service = out.service
	src.FromScan = out.fromScan

	records := out.records
	if opts.FillTitles {
		filled, fillWarnings := fillTitlesFromHistory(ctx, historyDBPath(opts, src.StorePath), records)
		warnings = append(warnings, fillWarnings...)
		records = filled
	}
	if opts.Unique {
		records = dedupeRecords(records)
	}

	return Result{Records: records, Warnings: warnings, Source: src}, nil
}

func resolveSource(opts Options) (Source, []string, error) {
	if opts.Path != "" {
		path, err := expandUserPath(opts.Path)
		if err != nil {
			return Source{}, nil, err
		}
		return Source{StorePath: path, Service: serviceForFilename(path)}, nil, nil
	}

	if opts.Browser == "" {
		return Source{}, nil, ErrNoSource
	}

	stores, warnings := resolveStores(opts.Browser, opts.Profile)
	if len(stores) == 0 {
		return Source{}, warnings, fmt.Errorf("freshtabs: %s session store not found", opts.Browser)
	}

	// Profiles race for freshness: with several candidates the most recently
	// written store belongs to the profile that was in use last.
	st := newestStore(stores)
	return Source{
		Browser:   opts.Browser,
		Profile:   st.profile,
		Service:   st.service,
		StorePath: st.path,
	}, warnings, nil
}

// serviceForFilename infers the command vocabulary from the store's file name
// ("Current Tabs", "Last Tabs", Tabs_<ts> vs. "Current Session", ...). Unknown
// names return the empty service, leaving detection to the parser.
func serviceForFilename(path string) Service {
	base := strings.ToLower(filepath.Base(path))
	switch {
	case strings.Contains(base, "tabs"):
		return ServiceTabs
	case strings.Contains(base, "session"):
		return ServiceSession
	default:
		return ""
	}
}

// historyDBPath assumes the browser's layout: the History database sits in the
// profile directory, next to the legacy session files and one level above the
// Sessions directory.
func historyDBPath(opts Options, storePath string) string {
	if opts.HistoryDB != "" {
		return opts.HistoryDB
	}
	dir := filepath.Dir(storePath)
	if filepath.Base(dir) == "Sessions" {
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, "History")
}

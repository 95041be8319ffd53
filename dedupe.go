package freshtabs

func dedupeRecords(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		key := r.Title + "\x00" + r.URL
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

package filtering

// Merge combines blocklist sets into the final entry list. Blocklists are
// walked in order; a domain is emitted once, at its first occurrence, unless
// the whitelist contains it verbatim.
func Merge(whitelist *DomainSet, blocklists []*DomainSet) []Entry {
	emitted := NewDomainSet()
	entries := make([]Entry, 0)

	for _, blocklist := range blocklists {
		if blocklist == nil {
			continue
		}
		for _, domain := range blocklist.order {
			if whitelist.Contains(domain) {
				continue
			}
			if !emitted.Add(domain) {
				continue
			}
			entries = append(entries, Entry{Domain: domain, Class: Classify(domain)})
		}
	}

	return entries
}

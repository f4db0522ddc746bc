package reservation

// AddReserved appends id to items unless an equal id is already present.
func AddReserved(items []string, id string) []string {
	for _, existing := range items {
		if existing == id {
			return items
		}
	}
	return append(items, id)
}

// RemoveReserved drops every occurrence of id from items.
func RemoveReserved(items []string, id string) []string {
	kept := items[:0]
	for _, existing := range items {
		if existing != id {
			kept = append(kept, existing)
		}
	}
	return kept
}

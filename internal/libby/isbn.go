package libby

// ExtractISBN searches the given formats, in order, for an ISBN. A format's
// own isbn field wins over its identifier list. Returns "" when none of the
// wanted formats declares one.
func ExtractISBN(formats []Format, formatIDs []string) string {
	wanted := make(map[string]bool, len(formatIDs))
	for _, id := range formatIDs {
		wanted[id] = true
	}

	for _, f := range formats {
		if !wanted[f.ID] {
			continue
		}
		if f.ISBN != "" {
			return f.ISBN
		}
		for _, ident := range f.Identifiers {
			if ident.Type == "ISBN" && ident.Value != "" {
				return ident.Value
			}
		}
	}
	return ""
}

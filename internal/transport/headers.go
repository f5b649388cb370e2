package transport

// EnabledEntries returns the entries of m whose keys are not present in the
// disabled set. Used for both headers and query params; the disabled set
// keeps entries visible upstream while excluding them from transmission.
func EnabledEntries(m map[string]string, disabled map[string]bool) map[string]string {
	enabled := make(map[string]string, len(m))
	for key, value := range m {
		if disabled[key] {
			continue
		}
		enabled[key] = value
	}
	return enabled
}

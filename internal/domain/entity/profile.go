// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

// Profile is the cached user record mirrored from server responses.
// The server owns the schema, so the client keeps it as a free-form
// key/value record and only interprets the handful of fields it needs.
type Profile map[string]any

// Clone returns a shallow copy of the profile, or nil for a nil profile.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}

	out := make(Profile, len(p))
	for k, v := range p {
		out[k] = v
	}

	return out
}

// Merge returns a new profile with the partial record shallow-merged on
// top of the receiver. A nil receiver is treated as an empty profile.
func (p Profile) Merge(partial Profile) Profile {
	merged := make(Profile, len(p)+len(partial))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range partial {
		merged[k] = v
	}

	return merged
}

// Points returns the user's loyalty points, or 0 when the field is
// missing or not numeric.
func (p Profile) Points() int {
	switch v := p["points"].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

// Username returns the display name, or "" when absent.
func (p Profile) Username() string {
	if v, ok := p["username"].(string); ok {
		return v
	}

	return ""
}

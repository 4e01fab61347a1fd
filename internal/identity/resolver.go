package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// accountIDOffset is the base offset for individual accounts in the
// 64-bit identifier space. Legacy encodings store only the offset-relative
// component.
const accountIDOffset int64 = 76561197960265728

const profileURLFormat = "https://steamcommunity.com/profiles/%d"

var (
	canonicalPattern = regexp.MustCompile(`^\d{16,17}$`)
	bracketPattern   = regexp.MustCompile(`^\[U:\d+:(\d+)\]$`)
	legacyPattern    = regexp.MustCompile(`^STEAM_\d+:(\d+):(\d+)$`)
)

// ResolveLegacy converts any supported identifier encoding into a
// canonical 64-bit account id. Encodings are attempted in a fixed priority
// order: bare 16-17 digit canonical form, bracketed [U:X:Y] form, then the
// colon-delimited STEAM_X:Y:Z form. ok is false when nothing matches;
// resolution is purely syntactic and never errors.
func ResolveLegacy(id string) (int64, bool) {
	id = strings.TrimSpace(id)

	if canonicalPattern.MatchString(id) {
		v, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	if m := bracketPattern.FindStringSubmatch(id); m != nil {
		y, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return accountIDOffset + y, true
	}

	if m := legacyPattern.FindStringSubmatch(id); m != nil {
		y, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, false
		}
		z, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return 0, false
		}
		return accountIDOffset + z*2 + y, true
	}

	return 0, false
}

// Resolve resolves the primary identifier pair from a row: the canonical
// steam_id64 column is tried first, then the legacy steam_id column.
func Resolve(canonical, legacy string) (int64, bool) {
	if id, ok := ResolveLegacy(canonical); ok {
		return id, ok
	}
	return ResolveLegacy(legacy)
}

// ProfileURL builds the community profile reference for a resolved id.
// No network validation is performed.
func ProfileURL(id int64) string {
	return fmt.Sprintf(profileURLFormat, id)
}

// ProfileFor resolves an identifier pair straight to a profile URL.
// Returns "" when no reference is available.
func ProfileFor(canonical, legacy string) string {
	id, ok := Resolve(canonical, legacy)
	if !ok {
		return ""
	}
	return ProfileURL(id)
}

// Candidate is one possible real-world identity for a logged player name,
// produced by upstream fuzzy matching. ID is zero when neither the
// canonical nor the legacy component of the triple resolved.
type Candidate struct {
	Name string `json:"name"`
	ID   int64  `json:"id,omitempty"`
}

// Resolved reports whether the candidate carries a usable account id.
func (c Candidate) Resolved() bool {
	return c.ID != 0
}

// ProfileURL returns the candidate's profile reference, or "" when the
// identity never resolved.
func (c Candidate) ProfileURL() string {
	if !c.Resolved() {
		return ""
	}
	return ProfileURL(c.ID)
}

// ParseCandidates parses the semicolon-delimited candidate list from the
// steam_candidates column. Each entry is a name|canonical|legacy triple
// with optional id components; entries missing a name are discarded.
func ParseCandidates(s string) []Candidate {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var out []Candidate
	for _, entry := range strings.Split(s, ";") {
		parts := strings.Split(entry, "|")
		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}

		c := Candidate{Name: name}
		var canonical, legacy string
		if len(parts) > 1 {
			canonical = parts[1]
		}
		if len(parts) > 2 {
			legacy = parts[2]
		}
		if id, ok := Resolve(canonical, legacy); ok {
			c.ID = id
		}
		out = append(out, c)
	}
	return out
}

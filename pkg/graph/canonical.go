package graph

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

// Honorific prefixes stripped during canonicalization.
var honorifics = []string{"Mr.", "Mrs.", "Ms.", "Dr.", "Prof.", "The "}

// Canonicalize normalizes raw entity text to its canonical display form:
// a leading honorific is stripped, whitespace trimmed, and PERSON/ORG
// names are title-cased. Other types pass through trimmed but uncased.
func Canonicalize(text, entityType string) string {
	canonical := strings.TrimSpace(text)

	for _, prefix := range honorifics {
		if strings.HasPrefix(canonical, prefix) {
			canonical = strings.TrimSpace(canonical[len(prefix):])
			break
		}
	}

	if entityType == "PERSON" || entityType == "ORG" {
		canonical = titleCase(canonical)
	}

	return canonical
}

// EntityID derives the deterministic id for a canonical name and type.
// The same (canonical name, type) pair always yields the same id, which is
// what makes re-ingestion idempotent.
func EntityID(canonicalName, entityType string) string {
	sum := md5.Sum([]byte(lowercase(canonicalName) + ":" + entityType))
	return hex.EncodeToString(sum[:])[:12]
}

// RelationshipID derives the id of an edge keyed by its endpoints and type.
func RelationshipID(sourceID, relationType, targetID string) string {
	return fmt.Sprintf("%s_%s_%s", sourceID, relationType, targetID)
}

func lowercase(s string) string {
	return strings.ToLower(s)
}

// titleCase uppercases the first letter of every word and lowercases the
// rest. A word restarts after any non-letter, so hyphenated and
// apostrophe-joined names come out as "Smith-Jones" and "O'Brien".
func titleCase(s string) string {
	runes := []rune(s)
	prevLetter := false
	for i, r := range runes {
		if !unicode.IsLetter(r) {
			prevLetter = false
			continue
		}
		if prevLetter {
			runes[i] = unicode.ToLower(r)
		} else {
			runes[i] = unicode.ToUpper(r)
		}
		prevLetter = true
	}
	return string(runes)
}

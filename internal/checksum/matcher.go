package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
)

// Fingerprint hashes the named files' paths and contents into one digest.
// Unreadable files are skipped, so a vanished workbook changes the digest
// instead of failing the caller.
func Fingerprint(paths []string) string {
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	hash := sha256.New()
	for _, path := range sorted {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		io.WriteString(hash, path)
		io.Copy(hash, f)
		f.Close()
	}
	return hex.EncodeToString(hash.Sum(nil))
}

// Matcher remembers the last fingerprint it saw. The rebuild job uses it to
// skip aggregation passes when no source workbook changed.
type Matcher struct {
	last string
}

func NewMatcher() *Matcher {
	return &Matcher{}
}

// Changed reports whether fp differs from the previous call and records it.
func (m *Matcher) Changed(fp string) bool {
	if fp == m.last {
		return false
	}
	m.last = fp
	return true
}

// Current returns the last recorded fingerprint.
func (m *Matcher) Current() string {
	return m.last
}

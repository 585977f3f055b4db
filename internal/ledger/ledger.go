// Package ledger provides append-only sets of identifiers used to remember
// decisions across runs: keys already proven invalid and content already
// scanned. Identifiers are never removed once added.
package ledger

import (
	"fmt"
	"path/filepath"
)

// Default file names, relative to the ledger directory.
const (
	DefaultInvalidFile = "not_valid.txt"
	DefaultCheckedFile = "checked_hashes.txt"
)

// Set is an append-only set of identifiers.
type Set interface {
	Contains(id string) bool
	Add(id string) error
	Len() int
}

// Ledgers bundles the two ledgers consulted by a hunt.
type Ledgers struct {
	Invalid Set
	Checked Set
}

// OpenDir opens (creating when missing) both ledger files under dir. Empty
// names fall back to the defaults.
func OpenDir(dir, invalidName, checkedName string) (Ledgers, error) {
	inv, chk, err := OpenFiles(dir, invalidName, checkedName)
	if err != nil {
		return Ledgers{}, err
	}
	return Ledgers{Invalid: inv, Checked: chk}, nil
}

// OpenFiles is OpenDir returning the concrete file ledgers.
func OpenFiles(dir, invalidName, checkedName string) (inv, chk *File, err error) {
	if invalidName == "" {
		invalidName = DefaultInvalidFile
	}
	if checkedName == "" {
		checkedName = DefaultCheckedFile
	}
	inv, err = Open(resolve(dir, invalidName))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid-key ledger: %w", err)
	}
	chk, err = Open(resolve(dir, checkedName))
	if err != nil {
		return nil, nil, fmt.Errorf("checked-content ledger: %w", err)
	}
	return inv, chk, nil
}

// InMemory returns two empty in-memory ledgers.
func InMemory() Ledgers {
	return Ledgers{Invalid: NewMemory(), Checked: NewMemory()}
}

func resolve(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

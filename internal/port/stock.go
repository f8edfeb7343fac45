package port

import (
	"path/filepath"

	"github.com/hyperport/hyperport/pkg/propfile"
)

// StockTree resolves properties from an extracted stock package tree
// using the same partition priority search as fingerprint
// reconstruction. It satisfies the PropSource contract for CLI runs
// where the stock package is available on disk.
type StockTree struct {
	Root string
}

// GetProp returns the first value found for key across the stock
// partitions, or "" when the key is absent everywhere.
func (s StockTree) GetProp(key string) string {
	for _, partition := range searchPartitions {
		paths, err := propfile.Enumerate(filepath.Join(s.Root, partition))
		if err != nil {
			continue
		}
		for _, path := range paths {
			val, ok, err := propfile.LookupFile(path, key)
			if err != nil {
				continue
			}
			if ok {
				return val
			}
		}
	}
	return ""
}

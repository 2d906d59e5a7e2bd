package provider

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jonwraymond/appdiscovery/index"
)

// computeFingerprint generates a stable hash of the item slice.
// The fingerprint changes when item content or order changes, which is how a
// Catalog decides whether a refresh produced a new snapshot.
func computeFingerprint(items []index.Item) string {
	h := sha256.New()

	for _, item := range items {
		h.Write([]byte(item.ID))
		h.Write([]byte{0}) // separator

		h.Write([]byte(item.DisplayName))
		h.Write([]byte{0})

		switch p := item.Payload.(type) {
		case nil:
		case App:
			h.Write([]byte(p.Name))
			h.Write([]byte{0})
			h.Write([]byte(p.Icon))
			h.Write([]byte{0})
			h.Write([]byte(p.Path))
		default:
			fmt.Fprintf(h, "%v", p)
		}
		h.Write([]byte{1}) // item terminator
	}

	return hex.EncodeToString(h.Sum(nil))
}

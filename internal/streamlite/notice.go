package streamlite

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/cespare/xxhash/v2"
	"github.com/dsjohal14/mukrindo/internal/scope/search"
)

// DefaultExchange is the topic exchange catalog change notices go through
const DefaultExchange = "global_catalog_updated"

// ChangeNotice announces a new catalog state
type ChangeNotice struct {
	Fingerprint uint64    `json:"fingerprint"`
	Count       int       `json:"count"`
	At          time.Time `json:"at"`
}

// NewChangeNotice describes products as of now
func NewChangeNotice(products []*search.Product) ChangeNotice {
	return ChangeNotice{
		Fingerprint: Fingerprint(products),
		Count:       len(products),
		At:          time.Now().UTC(),
	}
}

// Fingerprint hashes the encoded catalog; any field change, reorder or
// added or removed product changes it
func Fingerprint(products []*search.Product) uint64 {
	d := xxhash.New()
	for _, p := range products {
		if p == nil {
			continue
		}
		b, err := sonic.Marshal(p)
		if err != nil {
			_, _ = d.WriteString(p.ID)
		} else {
			_, _ = d.Write(b)
		}
		_, _ = d.Write([]byte{'\n'})
	}
	return d.Sum64()
}

// decodeNotice accepts an empty body as a bare "something changed" signal
func decodeNotice(body []byte) (ChangeNotice, error) {
	var n ChangeNotice
	if len(body) == 0 {
		return n, nil
	}
	err := sonic.Unmarshal(body, &n)
	return n, err
}

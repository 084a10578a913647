package inventory

import (
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/pilot-net/fleetwatch/pkg/types"
)

// signatureXXHash hashes the sorted id:address:hostname:condition tuples of
// a device set with xxhash, the same non-cryptographic hash go-redis uses
// internally for consistent-hashing shard selection; reused here for its
// intended role of cheap, fast content fingerprinting rather than security.
func signatureXXHash(devices []types.Device) string {
	lines := make([]string, len(devices))
	for i, d := range devices {
		lines[i] = strings.Join([]string{d.ID, d.Address, d.Hostname, d.Condition}, ":")
	}
	sort.Strings(lines)

	h := xxhash.New()
	for _, l := range lines {
		h.WriteString(l)
		h.WriteString("\n")
	}
	return strconv.FormatUint(h.Sum64(), 16)
}

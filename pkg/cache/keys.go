package cache

import (
	"fmt"
	"time"
)

// PropertyTTL bounds the staleness of any cached property snapshot. Read and
// write paths must use the same value: a deleted or updated record that leaves
// a stale entry behind self-corrects within one TTL window.
const PropertyTTL = 30 * time.Minute

// cache key for a specific property, keyed by primary identifier only.
// Secondary-index lookups (external id) are never cached.
func PropertyKey(id string) string {
	return fmt.Sprintf("property:%s", id)
}

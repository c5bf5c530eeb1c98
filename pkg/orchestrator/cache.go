package orchestrator

import (
	"sync"

	"github.com/go-mesh/meshkit/pkg/permission"
)

// statusCache holds the most recently observed status per permission. It is
// owned exclusively by the orchestrator and written only by status queries
// and incoming change events. Entries are independent; one mutation lock is
// all the consistency the cache needs.
type statusCache struct {
	mu      sync.RWMutex
	entries map[permission.Permission]permission.Status
}

func newStatusCache() *statusCache {
	return &statusCache{entries: make(map[permission.Permission]permission.Status)}
}

func (c *statusCache) set(p permission.Permission, s permission.Status) {
	c.mu.Lock()
	c.entries[p] = s
	c.mu.Unlock()
}

func (c *statusCache) update(statuses map[permission.Permission]permission.Status) {
	c.mu.Lock()
	for p, s := range statuses {
		c.entries[p] = s
	}
	c.mu.Unlock()
}

// lookup resolves each permission to its cached status, or unknown for
// permissions never observed.
func (c *statusCache) lookup(perms []permission.Permission) map[permission.Permission]permission.Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	statuses := make(map[permission.Permission]permission.Status, len(perms))
	for _, p := range perms {
		if s, ok := c.entries[p]; ok {
			statuses[p] = s
		} else {
			statuses[p] = permission.StatusUnknown
		}
	}
	return statuses
}

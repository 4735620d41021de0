package reports

import (
	"sync"

	"github.com/Alejano1/GestInvLab-proyecto/pkg/models"
)

// Cache holds the last generated result set of a workspace; exports read from it.
type Cache struct {
	mu   sync.RWMutex
	last []models.Movement
	held bool
}

func (c *Cache) Store(movements []models.Movement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = movements
	c.held = true
}

func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = nil
	c.held = false
}

// Last returns the held result set and whether one was generated.
func (c *Cache) Last() ([]models.Movement, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last, c.held
}

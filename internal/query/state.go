package query

import (
	"sync"

	"github.com/altinukshini/harvester-reports/internal/model"
)

// Listener is called after every state change with the new state.
type Listener func(model.QueryState)

// Container owns the shared QueryState. It is only mutated through Update.
type Container struct {
	mu        sync.Mutex
	state     model.QueryState
	listeners []Listener
}

func NewContainer(initial model.QueryState) *Container {
	return &Container{state: initial}
}

func (c *Container) State() model.QueryState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Update replaces the state. A new query string starts again from page 1.
// Listeners run outside the lock, in subscription order.
func (c *Container) Update(next model.QueryState) {
	c.mu.Lock()
	if next.QueryString != c.state.QueryString {
		next.Page = 1
	}
	if next.Page < 1 {
		next.Page = 1
	}
	c.state = next
	listeners := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}

// SetQueryString is Update with only the query string changed.
func (c *Container) SetQueryString(q string) {
	next := c.State()
	next.QueryString = q
	c.Update(next)
}

func (c *Container) Subscribe(fn Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

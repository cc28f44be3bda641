package querycache

import "sync"

// Subscribe returns a channel that receives the entry's state after every change,
// and a cancel func that unsubscribes and closes the channel.
//
// The channel holds only the latest state; a slow reader skips intermediate ones.
// Entries with live subscribers are never evicted.
func (c *Cache[V]) Subscribe(key string) (<-chan Result[V], func()) {
	ch := make(chan Result[V], 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	if c.subs[key] == nil {
		c.subs[key] = make(map[uint64]chan Result[V])
	}
	c.subs[key][id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			subs, ok := c.subs[key]
			if !ok {
				return
			}
			if _, live := subs[id]; !live {
				return
			}
			delete(subs, id)
			close(ch)
			if len(subs) == 0 {
				delete(c.subs, key)
			}
		})
	}
	return ch, cancel
}

// publish must be called with c.mu held.
func (c *Cache[V]) publish(key string, r Result[V]) {
	for _, ch := range c.subs[key] {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- r:
		default:
		}
	}
}

// closeSubscribers must be called with c.mu held.
func (c *Cache[V]) closeSubscribers() {
	for key, subs := range c.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(c.subs, key)
	}
}

package searcher

const generations = 4

// Cache is a bounded transposition table. Entries live in four generations of equal
// size; when the newest generation fills up, the oldest one is dropped as a whole.
// Lookups hitting an older generation move the entry one generation newer when there
// is room for it.
type Cache struct {
	genSize int
	gens    [generations]map[string]Result // newest first
}

func NewCache(capacity int) *Cache {
	c := &Cache{
		genSize: max(1, (capacity+generations-1)/generations),
	}
	c.Clear()
	return c
}

func (c *Cache) Get(key string) (Result, bool) {
	for i, gen := range c.gens {
		value, ok := gen[key]
		if !ok {
			continue
		}
		if newer := i - 1; newer >= 0 && len(c.gens[newer]) < c.genSize {
			delete(gen, key)
			c.gens[newer][key] = value
		}
		return value, true
	}
	return Result{}, false
}

func (c *Cache) Set(key string, value Result) {
	if _, ok := c.gens[0][key]; !ok && len(c.gens[0]) >= c.genSize {
		c.age()
	}
	c.gens[0][key] = value

	// Drop stale copies
	for _, gen := range c.gens[1:] {
		delete(gen, key)
	}
}

// age discards the oldest generation and starts a new empty one.
func (c *Cache) age() {
	for i := generations - 1; i > 0; i-- {
		c.gens[i] = c.gens[i-1]
	}
	c.gens[0] = make(map[string]Result, c.genSize)
}

func (c *Cache) Clear() {
	for i := range c.gens {
		c.gens[i] = make(map[string]Result, c.genSize)
	}
}

func (c *Cache) Size() int {
	size := 0
	for _, gen := range c.gens {
		size += len(gen)
	}
	return size
}

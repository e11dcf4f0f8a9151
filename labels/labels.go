package labels

// Counter hands out numbers that increase monotonically and independently
// for each kind of generated label. A Counter is never reset; its owner
// creates a new one per compilation unit or translated program.
type Counter struct {
	next map[string]int
}

func New() *Counter {
	return &Counter{next: make(map[string]int)}
}

// Next returns the next free number for kind.
func (c *Counter) Next(kind string) int {
	n := c.next[kind]
	c.next[kind]++
	return n
}

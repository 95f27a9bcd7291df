package visibility

// Counter tracks how many associated views (previews, menus) are open. It
// never goes below zero.
type Counter struct {
	n int
}

func (c *Counter) Increment() { c.n++ }

// DecrementSaturating decrements unless already zero. It reports whether
// the decrement happened; a false return is a stale close.
func (c *Counter) DecrementSaturating() bool {
	if c.n == 0 {
		return false
	}
	c.n--
	return true
}

func (c *Counter) Reset() { c.n = 0 }

func (c *Counter) Value() int { return c.n }

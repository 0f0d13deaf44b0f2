package orchestrator

// Counter is a monotonic payment-index counter supporting both pre- and
// post-increment/decrement access, ported from utils.py's Counter class.
type Counter struct {
	value int
}

// NewCounter returns a Counter starting at start.
func NewCounter(start int) *Counter {
	return &Counter{value: start}
}

// PreIncrement increments then returns the new value.
func (c *Counter) PreIncrement() int {
	c.value++
	return c.value
}

// PostIncrement returns the current value then increments.
func (c *Counter) PostIncrement() int {
	v := c.value
	c.value++
	return v
}

// PreDecrement decrements then returns the new value.
func (c *Counter) PreDecrement() int {
	c.value--
	return c.value
}

// PostDecrement returns the current value then decrements.
func (c *Counter) PostDecrement() int {
	v := c.value
	c.value--
	return v
}

// Value returns the current count without mutating it.
func (c *Counter) Value() int {
	return c.value
}

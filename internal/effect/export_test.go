package effect

// setState applies an unconditional transition.
func (c *Controller[A]) setState(next State[A]) {
	c.mu.Lock()
	emit := c.transitionLocked(next, nil)
	c.mu.Unlock()
	emit()
}

package editor

// completionState remembers the candidates for the current Tab cycle.
// A non-empty candidate list always has cursor in range.
type completionState struct {
	candidates []string
	cursor     int
}

func (c *completionState) reset() {
	c.candidates = nil
	c.cursor = 0
}

func (c *completionState) empty() bool {
	return len(c.candidates) == 0
}

func (c *completionState) populate(candidates []string) {
	c.candidates = candidates
	c.cursor = 0
}

// next returns the candidate under the cursor and advances it, wrapping at the end.
func (c *completionState) next() (string, bool) {
	if c.empty() {
		return "", false
	}
	candidate := c.candidates[c.cursor]
	c.cursor = (c.cursor + 1) % len(c.candidates)
	return candidate, true
}

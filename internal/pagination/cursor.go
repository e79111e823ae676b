package pagination

// Cursor is the current page of a list view. The view owns it for its
// lifetime and renders from snapshots of it. The zero value is on page one.
//
// SetPage stores whatever it is given; it is not checked against the page
// count. Next and Prev are navigation helpers and stay inside [1, count].
type Cursor struct {
	offset int // index - 1
}

// Index returns the current 1-based page index.
func (c Cursor) Index() int { return c.offset + 1 }

// SetPage handles an external page-change signal.
func (c *Cursor) SetPage(index int) { c.offset = index - 1 }

// Reset goes back to the first page, e.g. when the underlying collection is replaced.
func (c *Cursor) Reset() { c.offset = 0 }

// Next moves forward one page unless already on the last of count pages.
// From an out-of-range index below one it lands on page one.
func (c *Cursor) Next(count int) bool {
	cur := c.Index()
	if cur >= count {
		return false
	}
	if cur < 1 {
		c.SetPage(1)
		return true
	}
	c.SetPage(cur + 1)
	return true
}

// Prev moves back one page unless already on the first.
// From an out-of-range index past count it lands on the last page.
func (c *Cursor) Prev(count int) bool {
	cur := c.Index()
	if cur <= 1 {
		return false
	}
	if cur > count {
		c.SetPage(count)
		return true
	}
	c.SetPage(cur - 1)
	return true
}

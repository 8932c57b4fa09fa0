package page

// Chapter is ordered list of original pages. Page index is position in the
// list.
type Chapter struct {
	ID    string
	Title string

	pages []*Page
}

// NewChapter creates chapter with one queued original page per url.
func NewChapter(id, title string, urls []string) *Chapter {
	ch := &Chapter{ID: id, Title: title, pages: make([]*Page, len(urls))}
	for i, u := range urls {
		ch.pages[i] = newOriginal(ch, i, u)
	}
	return ch
}

// Pages returns original pages. Slice must not be modified.
func (c *Chapter) Pages() []*Page {
	return c.pages
}

// Page returns original page by index or nil if index is out of range.
func (c *Chapter) Page(index int) *Page {
	if index < 0 || index >= len(c.pages) {
		return nil
	}
	return c.pages[index]
}

func (c *Chapter) Len() int {
	return len(c.pages)
}

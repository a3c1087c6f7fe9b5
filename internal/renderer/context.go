package renderer

// BuildContext carries the rendered-document cache for one build pass. The
// parser sink writes every entry before the site generator reads any of
// them, so no locking is needed. Across serve rebuilds entries are
// overwritten by path and never purged; a path is only looked up when the
// current pass claimed it.
type BuildContext struct {
	rendered map[string]string
}

// NewBuildContext returns an empty rendered-document cache.
func NewBuildContext() *BuildContext {
	return &BuildContext{rendered: map[string]string{}}
}

// Put stores the finished document for a source path. Documents are written
// whole; partially rendered text never enters the context.
func (c *BuildContext) Put(path, text string) {
	c.rendered[path] = text
}

// Get returns the rendered document registered under the source path.
func (c *BuildContext) Get(path string) (string, bool) {
	text, ok := c.rendered[path]
	return text, ok
}

// Len reports how many documents the context holds.
func (c *BuildContext) Len() int {
	return len(c.rendered)
}

package models

// Catalog owns the validated courses and their interchangeable options.
// Option lists keep input row order; course order is first-seen. A course
// whose rows all failed validation is absent.
type Catalog struct {
	order   []string
	options map[string][]Option
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{options: make(map[string][]Option)}
}

// Add appends an option to its course, registering the course on first sight.
func (c *Catalog) Add(opt Option) {
	if _, ok := c.options[opt.Course]; !ok {
		c.order = append(c.order, opt.Course)
	}
	c.options[opt.Course] = append(c.options[opt.Course], opt)
}

// OptionsFor returns the option list recorded for a course code.
func (c *Catalog) OptionsFor(course string) []Option {
	return c.options[course]
}

// Courses lists course codes in first-seen order.
func (c *Catalog) Courses() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len reports the number of courses holding at least one option.
func (c *Catalog) Len() int {
	return len(c.order)
}

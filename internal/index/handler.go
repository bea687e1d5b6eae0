package index

// Handler observes one walk. HandleItemOrAccess is called for every
// definition and use in walk order until Finished reports true.
type Handler interface {
	HandleItemOrAccess(p *Project, ia ItemOrAccess)
	// VisitBody reports whether rule and extractor bodies are walked.
	VisitBody() bool
	Finished() bool
}

// nopHandler only drives the scope side effects.
type nopHandler struct{}

func (nopHandler) HandleItemOrAccess(*Project, ItemOrAccess) {}
func (nopHandler) VisitBody() bool                         { return false }
func (nopHandler) Finished() bool                          { return false }

// Collector records every item and access of a walk.
type Collector struct {
	Items    []Item
	Accesses []Access
	Bodies   bool
}

func (c *Collector) HandleItemOrAccess(_ *Project, ia ItemOrAccess) {
	if ia.Item != nil {
		c.Items = append(c.Items, *ia.Item)
		return
	}
	c.Accesses = append(c.Accesses, *ia.Access)
}

func (c *Collector) VisitBody() bool { return c.Bodies }
func (c *Collector) Finished() bool  { return false }

package aggregates

// Contract names an aggregate and the tables its writes may touch. Every
// write method owns its transaction; callers never pass one in.
type Contract struct {
	Name   string
	Writes []string
	Notes  string
}

type Aggregate interface {
	Contract() Contract
}

// Touches reports whether table is among the contract's write set.
func (c Contract) Touches(table string) bool {
	for _, t := range c.Writes {
		if t == table {
			return true
		}
	}
	return false
}

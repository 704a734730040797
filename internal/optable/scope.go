package optable

// Scope says which logical table a cell belongs to.
type Scope int

const (
	Base Scope = iota
	Extended
)

func (s Scope) String() string {
	switch s {
	case Base:
		return "base"
	case Extended:
		return "extended"
	}
	return "unknown"
}

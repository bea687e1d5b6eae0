package diag

// Class is the coarse error category reported to editors.
type Class uint8

const (
	ClassIO Class = iota
	ClassParse
	ClassType
	ClassUnreachable
	ClassOverlap
	ClassShadowed
)

func (c Class) String() string {
	switch c {
	case ClassIO:
		return "io error"
	case ClassParse:
		return "parse error"
	case ClassType:
		return "type error"
	case ClassUnreachable:
		return "unreachable rule"
	case ClassOverlap:
		return "overlapping rules"
	case ClassShadowed:
		return "shadowed rule"
	}
	return "error"
}

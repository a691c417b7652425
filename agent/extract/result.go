package extract

// Source tells whether a result came from the model or the fallback path.
type Source uint8

const (
	Parsed Source = iota + 1
	Fallback
)

func (s Source) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

package contract

// ToolParam describes one string argument of a tool.
type ToolParam struct {
	Name     string
	Desc     string
	Required bool
}

type ToolSpec struct {
	Name   string
	Desc   string
	Params []ToolParam
}

// ToolSet is the bounded set of tools a LanguageModel may call during a single
// completion, together with the invoker that resolves those calls.
type ToolSet struct {
	Specs   []ToolSpec
	Invoker ToolInvoker
}

func (s *ToolSet) Allowed(name string) bool {
	if s == nil {
		return false
	}
	for _, spec := range s.Specs {
		if spec.Name == name {
			return true
		}
	}
	return false
}

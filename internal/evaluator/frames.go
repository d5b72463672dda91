package evaluator

// CallFrame records one live mixin invocation. The stack exists for two
// reasons: include-loop detection and backtrace construction when an
// error unwinds through nested includes.
type CallFrame struct {
	MixinName string
	File      string
	Line      int
}

func (e *Evaluator) PushCall(frame CallFrame) {
	e.CallStack = append(e.CallStack, frame)
}

func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}

// IsMixinActive reports whether a mixin of this name is currently being
// expanded somewhere up the stack.
func (e *Evaluator) IsMixinActive(name string) bool {
	for _, frame := range e.CallStack {
		if frame.MixinName == name {
			return true
		}
	}
	return false
}

// ActiveMixins returns the invocation chain, outermost first.
func (e *Evaluator) ActiveMixins() []string {
	names := make([]string, 0, len(e.CallStack))
	for _, frame := range e.CallStack {
		names = append(names, frame.MixinName)
	}
	return names
}

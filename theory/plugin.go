package theory

// PluginState is what a theory plugin hands back from CreateAndSetup: an
// opaque handle the registry can push/pop without knowing anything else
// about the plugin. A Go interface value already is the existential
// pairing of "opaque state plus the operations closed over it" that the
// design note calls for; no further tagging is needed because plugin
// states are only ever invoked, never inspected.
type PluginState interface {
	PushLevel()
	PopLevels(n int)
}

// Plugin is the theory-plugin contract (§6.1). CreateAndSetup is called
// once at registration time; the plugin is expected to wire itself into
// si's hook lists (OnPartialCheck, OnFinalCheck, OnCCNewTerm, ...,
// AddSimplifyHook, AddPreprocessHook) before returning its state.
type Plugin interface {
	Name() string
	CreateAndSetup(si *SolverInternal) PluginState
}

// registry is a singly linked chain of registered plugin states,
// iterated in registration order (§3's "Theory-plugin registry").
type registryNode struct {
	state PluginState
	name  string
	next  *registryNode
}

type registry struct {
	head *registryNode
	tail *registryNode
}

func (r *registry) append(name string, state PluginState) {
	n := &registryNode{state: state, name: name}
	if r.tail == nil {
		r.head = n
	} else {
		r.tail.next = n
	}
	r.tail = n
}

func (r *registry) each(f func(name string, state PluginState)) {
	for n := r.head; n != nil; n = n.next {
		f(n.name, n.state)
	}
}

package ir

// ModuleFinder is the external collaborator that resolves import names
// to module paths and loads their IR. The core never touches the
// filesystem directly (§6); module composition (package modgraph)
// calls through this interface exclusively.
type ModuleFinder interface {
	// Resolve maps an imported name, relative to the importing
	// module's path, to a canonical module path. A false second
	// result means the module could not be located (an
	// import-not-found unknown, §7 category 7).
	Resolve(name, importerPath string) (modulePath string, ok bool)

	// Load parses and returns the IR for the given module path. A
	// false second result means the module exists but failed to
	// load.
	Load(modulePath string) (*ModuleIR, bool)
}

// ClassBootstrap optionally supplies base-class tuples for classes
// defined outside the analysed sources (e.g. builtins, C-extension
// types), letting classhier.Hierarchy seed its registry before any
// ClassIR is seen.
type ClassBootstrap interface {
	// Bases returns the immediate bases of an externally defined
	// class, or ok=false if this bootstrap has no opinion about it.
	Bases(classQualName string) (bases []string, ok bool)
}

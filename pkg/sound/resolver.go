package sound

import (
	"path/filepath"

	"github.com/Veraticus/idlewatch/pkg/types"
)

// Action is what to do for a notification's sound.
type Action int

const (
	// ActionNone plays nothing.
	ActionNone Action = iota
	// ActionFile plays Decision.Path.
	ActionFile
	// ActionSynthesize plays the generated tone.
	ActionSynthesize
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionFile:
		return "file"
	case ActionSynthesize:
		return "synthesize"
	default:
		return "unknown"
	}
}

// Decision is the outcome of resolving a notification type.
type Decision struct {
	Action Action
	Path   string
}

// Lookup is the input every strategy sees.
type Lookup struct {
	Type   types.NotificationType
	Config Config
	Dir    string
	Exists func(path string) bool
}

// Strategy either resolves a lookup or passes it on by returning false.
type Strategy func(l Lookup) (Decision, bool)

// DefaultStrategies is the resolution order: disabled, per-type file,
// "generated" fallback, fallback file, synthesis.
var DefaultStrategies = []Strategy{
	Disabled,
	PerTypeFile,
	GeneratedFallback,
	FallbackFile,
	Synthesize,
}

// Disabled resolves to nothing when sound is switched off.
func Disabled(l Lookup) (Decision, bool) {
	if !l.Config.Settings.Enabled {
		return Decision{Action: ActionNone}, true
	}
	return Decision{}, false
}

// PerTypeFile selects the configured file for the type if it exists.
func PerTypeFile(l Lookup) (Decision, bool) {
	name, ok := l.Config.Sounds[l.Type.String()]
	if !ok || name == "" {
		return Decision{}, false
	}

	path := filepath.Join(l.Dir, name)
	if !l.Exists(path) {
		return Decision{}, false
	}
	return Decision{Action: ActionFile, Path: path}, true
}

// GeneratedFallback selects synthesis when the fallback is the sentinel.
func GeneratedFallback(l Lookup) (Decision, bool) {
	if l.Config.Fallbacks.Default == FallbackGenerated {
		return Decision{Action: ActionSynthesize}, true
	}
	return Decision{}, false
}

// FallbackFile selects the fallback file if it exists.
func FallbackFile(l Lookup) (Decision, bool) {
	if l.Config.Fallbacks.Default == "" {
		return Decision{}, false
	}

	path := filepath.Join(l.Dir, l.Config.Fallbacks.Default)
	if !l.Exists(path) {
		return Decision{}, false
	}
	return Decision{Action: ActionFile, Path: path}, true
}

// Synthesize always resolves to the generated tone.
func Synthesize(Lookup) (Decision, bool) {
	return Decision{Action: ActionSynthesize}, true
}

// Resolver runs an ordered strategy chain against a sounds directory.
type Resolver struct {
	dir        string
	strategies []Strategy
	exists     func(path string) bool
}

// NewResolver creates a resolver using DefaultStrategies.
func NewResolver(dir string) *Resolver {
	return NewResolverWithStrategies(dir, DefaultStrategies...)
}

// NewResolverWithStrategies creates a resolver with a custom chain.
func NewResolverWithStrategies(dir string, strategies ...Strategy) *Resolver {
	return &Resolver{
		dir:        dir,
		strategies: strategies,
		exists:     isFile,
	}
}

// Resolve returns the first decision in the chain. A chain that resolves
// nothing synthesizes.
func (r *Resolver) Resolve(t types.NotificationType, cfg Config) Decision {
	l := Lookup{
		Type:   t,
		Config: cfg,
		Dir:    r.dir,
		Exists: r.exists,
	}

	for _, strategy := range r.strategies {
		if d, ok := strategy(l); ok {
			return d
		}
	}
	return Decision{Action: ActionSynthesize}
}

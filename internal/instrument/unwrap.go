package instrument

import "github.com/ormasoftchile/suitegen/internal/vm"

// UnwrapAdapter is the last link in every chain, including the stdlib-only
// chain applied to third-party modules. In a real dynamically-typed host it
// strips a foreign-proxy wrapper from arguments crossing into instrumented
// code; this toy VM has no such native/proxy boundary, so UnwrapAdapter is a
// structural marker only — it records that the object passed through the
// chain, satisfying spec.md §4.1's requirement that every call site
// (instrumented or not) terminates in an unwrap stage, without emitting any
// instruction (BytecodeVersion.ShiftDownThree returns nil for V1, confirming
// there is nothing for this VM to rotate into place).
type UnwrapAdapter struct{}

func (a *UnwrapAdapter) Name() string    { return "unwrap" }
func (a *UnwrapAdapter) StackEffect() int { return 0 }

func (a *UnwrapAdapter) Apply(version vm.BytecodeVersion, obj *vm.CodeObject, reg *Registry) error {
	_ = version.ShiftDownThree() // always nil for V1; kept to honor the protocol
	return nil
}

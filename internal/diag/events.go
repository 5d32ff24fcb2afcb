package diag

// Warning is the common surface of recoverable anomalies. Each concrete event
// type also implements it so subscribers can handle all warnings uniformly.
type Warning interface {
	WarningMessage() string
}

// UnknownFragment is published when a spread names a fragment absent from the
// registry. The spread contributes nothing to the output.
type UnknownFragment struct {
	Name string
}

func (e UnknownFragment) WarningMessage() string {
	return "fragment spread references unknown fragment " + e.Name
}

// FragmentCycle is published when a fragment occurs in its own expansion
// chain. Expansion still terminates via the fragment depth bound.
type FragmentCycle struct {
	Name  string
	Chain []string
}

func (e FragmentCycle) WarningMessage() string {
	return "fragment " + e.Name + " spreads itself transitively"
}

// FragmentDepthTruncated is published when fragment expansion stops at the
// configured depth bound.
type FragmentDepthTruncated struct {
	Name  string
	Depth int
}

func (e FragmentDepthTruncated) WarningMessage() string {
	return "fragment " + e.Name + " expansion truncated at configured depth"
}

// UnknownField is published when a selection names a field the owner type
// does not declare. The selection is skipped.
type UnknownField struct {
	TypeName  string
	FieldName string
}

func (e UnknownField) WarningMessage() string {
	return "type " + e.TypeName + " has no field " + e.FieldName
}

// NonMemberTypeCondition is published when an inline type condition targets a
// type that is not a member of the union (or not an implementation of the
// interface). The condition contributes no variant.
type NonMemberTypeCondition struct {
	OwnerTypeName  string
	TargetTypeName string
}

func (e NonMemberTypeCondition) WarningMessage() string {
	return "type condition on " + e.TargetTypeName + " is not a member of " + e.OwnerTypeName
}

// NestingDepthTruncated is published when object recursion reaches the
// nesting bound and a typename-only shape is materialized instead.
type NestingDepthTruncated struct {
	Path string
}

func (e NestingDepthTruncated) WarningMessage() string {
	return "selection at " + e.Path + " truncated at configured nesting depth"
}

// OperationStart marks the beginning of artifact generation for one
// operation or fragment definition.
type OperationStart struct {
	Name string
	Kind string
}

// OperationFinish marks the end of artifact generation for one operation or
// fragment definition.
type OperationFinish struct {
	Name      string
	Kind      string
	Artifacts int
	Warnings  int
}

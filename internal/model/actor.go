package model

// Actor identifies who initiated an operation. Derived records keep the
// actor in their audit columns so a reviewer can tell system output from
// human adjudication.
type Actor struct {
	ID   string
	Name string
	Kind string
}

const (
	ActorKindSystem   = "system"
	ActorKindOperator = "operator"
)

// SystemActor builds the actor used by non-interactive runs, for example
// the nightly scheduler.
func SystemActor(name string) Actor {
	return Actor{
		ID:   "00000000-0000-0000-0000-000000000000",
		Name: name,
		Kind: ActorKindSystem,
	}
}

// IsSystem reports whether the actor is a non-interactive component.
func (a Actor) IsSystem() bool {
	return a.Kind == ActorKindSystem
}

// IDRef returns the actor id as a nullable reference for audit columns.
func (a Actor) IDRef() *string {
	if a.ID == "" {
		return nil
	}
	id := a.ID
	return &id
}

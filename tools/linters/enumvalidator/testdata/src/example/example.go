package example

type Operation string

const (
	OperationCreate Operation = "create"
	OperationFix    Operation = "fix"
)

type GenerationStatus string

const (
	GenerationStatusQueued GenerationStatus = "queued"
)

type Kind string

const (
	KindEmptyReply Kind = "empty_reply"
)

type GenerationRun struct {
	Operation Operation
	Status    GenerationStatus
	Label     string
}

type Error struct {
	Kind Kind
}

func bad() {
	r := &GenerationRun{}
	r.Operation = "rewrite" // want "enum field Operation assigned string literal"
	r.Status = "done"       // want "enum field Status assigned string literal"

	_ = &Error{Kind: "boom"} // want "enum field Kind assigned string literal"
}

func good() {
	r := &GenerationRun{}
	r.Operation = OperationFix // OK: using constant
	r.Status = GenerationStatusQueued
	r.Label = "anything" // OK: plain string field

	_ = &Error{Kind: KindEmptyReply}
}

func alsoGood() {
	// OK: Variable, not literal
	op := OperationCreate
	r := &GenerationRun{Operation: op}
	_ = r
}

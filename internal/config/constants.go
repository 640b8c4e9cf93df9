package config

// Version is reported by `bloch version` and stored with every run.
const Version = "0.1.0"

const SourceFileExt = ".bloch"

// ConfigFileNames are the project file names Find looks for, in order.
var ConfigFileNames = []string{"bloch.yaml", "bloch.yml"}

// EntryFunctionName is the function Execute calls.
const EntryFunctionName = "main"

// Type names as they appear in source and in signatures
const (
	IntTypeName   = "int"
	FloatTypeName = "float"
	BitTypeName   = "bit"
	QubitTypeName = "qubit"
	VoidTypeName  = "void"
)

// Annotation names
const (
	QuantumAnnotation = "quantum"
	StateAnnotation   = "state"
	AdjointAnnotation = "adjoint"
)

// UnmeasuredWarning is printed for every qubit the unmeasured sweep finds.
const UnmeasuredWarning = "Qubit %s was left unmeasured. No classical value will be returned."

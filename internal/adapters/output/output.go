package output

// Printer renders command results to stdout.
type Printer interface {
	Print(v any) error
}

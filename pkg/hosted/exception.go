package hosted

import "fmt"

// Exception class names understood by the script host. The set is closed:
// native errors are translated onto the nearest of these.
const (
	ExRuntime         = "RuntimeException"
	ExIllegalArgument = "IllegalArgumentException"
	ExNullPointer     = "NullPointerException"
	ExNoSuchElement   = "NoSuchElementException"
)

// Exception is a hosted-runtime exception. Native code never returns one as
// an error across the boundary; it is thrown into the hosted frame via
// Env.Throw and delivered by the script host.
type Exception struct {
	Name    string
	Message string
}

func (e *Exception) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

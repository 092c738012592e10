package agent

import "fmt"

// SchemaViolation reports model output that does not conform to the agent's
// response schema: required fields absent, fields mistyped, or output that is
// not parseable JSON at all. The invoker never coerces or fabricates fields;
// after the bounded re-prompt budget is spent the violation surfaces to the
// caller and aborts the pipeline run.
type SchemaViolation struct {
	Agent  string
	Reason string
	Raw    string
}

func (e *SchemaViolation) Error() string {
	return fmt.Sprintf("agent %s: schema violation: %s", e.Agent, e.Reason)
}

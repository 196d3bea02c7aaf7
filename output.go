package jsonschema

// Output is a JSON-serializable projection of a Result tree. It carries
// json tags so cmd/jsonschema and the HTTP middleware can marshal it
// directly; the engine itself never depends on any particular encoding of
// Output.
type Output struct {
	Valid            bool           `json:"valid"`
	EvaluationPath   string         `json:"evaluationPath,omitempty"`
	SchemaLocation   string         `json:"schemaLocation,omitempty"`
	InstanceLocation string         `json:"instanceLocation,omitempty"`
	Errors           []OutputError  `json:"errors,omitempty"`
	Annotations      map[string]any `json:"annotations,omitempty"`
	Details          []*Output      `json:"details,omitempty"`
}

// OutputError is one leaf validation failure, rendered flat for basic
// output or attached to its owning node for detailed/verbose output.
type OutputError struct {
	Error            string         `json:"error"`
	Keyword          string         `json:"keyword,omitempty"`
	EvaluationPath   string         `json:"evaluationPath,omitempty"`
	InstanceLocation string         `json:"instanceLocation,omitempty"`
	SchemaLocation   string         `json:"schemaLocation,omitempty"`
	Params           map[string]any `json:"params,omitempty"`
}

// Format projects a Result tree into one of the four output shapes: flag,
// basic, detailed, or verbose. Every shape is a pure read of the same
// tree; formatting never mutates res and never re-runs evaluation.
func Format(res *Result, format OutputFormat) *Output {
	switch format {
	case OutputFlag:
		return &Output{Valid: res.Valid}
	case OutputBasic:
		out := &Output{Valid: res.Valid}
		collectErrors(res, &out.Errors)
		return out
	case OutputDetailed:
		return formatDetailed(res)
	case OutputVerbose:
		return formatVerbose(res)
	default:
		return &Output{Valid: res.Valid}
	}
}

func collectErrors(res *Result, out *[]OutputError) {
	for _, e := range res.Errors {
		*out = append(*out, OutputError{
			Error:            e.Message,
			Keyword:          e.Keyword,
			EvaluationPath:   e.EvaluationPath,
			InstanceLocation: e.InstanceLocation,
			SchemaLocation:   e.SchemaLocation,
			Params:           e.Params,
		})
	}
	for _, d := range res.Details {
		collectErrors(d, out)
	}
}

func toOutputErrors(errs []ResultError) []OutputError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]OutputError, 0, len(errs))
	for _, e := range errs {
		out = append(out, OutputError{
			Error:            e.Message,
			Keyword:          e.Keyword,
			EvaluationPath:   e.EvaluationPath,
			InstanceLocation: e.InstanceLocation,
			SchemaLocation:   e.SchemaLocation,
			Params:           e.Params,
		})
	}
	return out
}

// formatDetailed renders the full location hierarchy but prunes any
// subtree that is both valid and carries no annotations — a valid branch
// contributes nothing a reader needs to see.
func formatDetailed(res *Result) *Output {
	out := &Output{
		Valid:            res.Valid,
		Errors:           toOutputErrors(res.Errors),
		EvaluationPath:   res.EvaluationPath,
		InstanceLocation: res.InstanceLocation,
		SchemaLocation:   res.SchemaLocation,
	}
	if len(res.Annotations) > 0 {
		out.Annotations = res.Annotations
	}
	for _, d := range res.Details {
		if d.Valid && len(d.Annotations) == 0 && !hasInterestingDescendant(d) {
			continue
		}
		out.Details = append(out.Details, formatDetailed(d))
	}
	return out
}

func hasInterestingDescendant(res *Result) bool {
	for _, d := range res.Details {
		if !d.Valid || len(d.Annotations) > 0 || hasInterestingDescendant(d) {
			return true
		}
	}
	return false
}

// formatVerbose renders every node of the tree unconditionally.
func formatVerbose(res *Result) *Output {
	out := &Output{
		Valid:            res.Valid,
		Errors:           toOutputErrors(res.Errors),
		EvaluationPath:   res.EvaluationPath,
		InstanceLocation: res.InstanceLocation,
		SchemaLocation:   res.SchemaLocation,
	}
	if len(res.Annotations) > 0 {
		out.Annotations = res.Annotations
	}
	for _, d := range res.Details {
		out.Details = append(out.Details, formatVerbose(d))
	}
	return out
}

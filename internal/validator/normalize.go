package validator

import (
	"strings"

	"github.com/me/wfstage/pkg/stage"
)

// Normalize fills declared defaults on an already-validated definition,
// in place. It is a pure, idempotent second phase: running it on an
// already-normalized tree changes nothing, and it never runs on an
// invalid tree.
func Normalize(def *stage.StageDefinition) {
	if def.TRSEndpoint != "" && !strings.HasSuffix(def.TRSEndpoint, "/") {
		def.TRSEndpoint += "/"
	}

	if cfg := def.WorkflowConfig; cfg != nil {
		if cfg.Nextflow != nil && cfg.Nextflow.Version == "" {
			cfg.Nextflow.Version = stage.DefaultNextflowVersion
		}
		if cfg.CWL != nil && cfg.CWL.Version == "" {
			cfg.CWL.Version = stage.DefaultCWLVersion
		}
	}

	if def.Params == nil {
		def.Params = make(stage.ParamMap)
	}

	if def.Outputs == nil {
		def.Outputs = make(map[string]stage.OutputSpec)
	}
	for name, spec := range def.Outputs {
		if spec.Cardinality.Kind == stage.CardinalityUnset {
			spec.Cardinality = stage.DefaultCardinality()
			def.Outputs[name] = spec
		}
	}
	if def.OutputNames == nil {
		def.OutputNames = []string{}
	}
}

package validator

import (
	"reflect"
	"testing"

	"github.com/me/wfstage/pkg/stage"
)

func TestNormalize_FillsDefaults(t *testing.T) {
	def := &stage.StageDefinition{
		TRSEndpoint: "https://trs.example.org/api",
		WorkflowID:  int64(42),
		WorkflowConfig: &stage.WorkflowConfig{
			Nextflow: &stage.NextflowConfig{},
			CWL:      &stage.CWLConfig{},
		},
		Outputs: map[string]stage.OutputSpec{
			"o": {Class: stage.ClassFile},
		},
	}

	Normalize(def)

	if def.TRSEndpoint != "https://trs.example.org/api/" {
		t.Errorf("TRSEndpoint = %q", def.TRSEndpoint)
	}
	if def.WorkflowConfig.Nextflow.Version != stage.DefaultNextflowVersion {
		t.Errorf("nextflow version = %q", def.WorkflowConfig.Nextflow.Version)
	}
	if def.WorkflowConfig.CWL.Version != stage.DefaultCWLVersion {
		t.Errorf("cwl version = %q", def.WorkflowConfig.CWL.Version)
	}
	if def.Params == nil {
		t.Error("Params left nil")
	}
	if def.OutputNames == nil {
		t.Error("OutputNames left nil")
	}
	if card := def.Outputs["o"].Cardinality; card.Kind != stage.CardinalitySymbol || card.Symbol != "1" {
		t.Errorf("cardinality = %+v", card)
	}
}

func TestNormalize_PreservesExplicitValues(t *testing.T) {
	def := &stage.StageDefinition{
		TRSEndpoint: "https://trs.example.org/",
		WorkflowConfig: &stage.WorkflowConfig{
			Nextflow: &stage.NextflowConfig{Version: "22.04.0"},
		},
		Outputs: map[string]stage.OutputSpec{
			"o": {Class: stage.ClassFile, Cardinality: stage.Cardinality{Kind: stage.CardinalityCount, Count: 3}},
		},
	}

	Normalize(def)

	if def.TRSEndpoint != "https://trs.example.org/" {
		t.Errorf("TRSEndpoint = %q, trailing slash doubled", def.TRSEndpoint)
	}
	if def.WorkflowConfig.Nextflow.Version != "22.04.0" {
		t.Errorf("nextflow version = %q", def.WorkflowConfig.Nextflow.Version)
	}
	if def.Outputs["o"].Cardinality.Count != 3 {
		t.Errorf("cardinality = %+v", def.Outputs["o"].Cardinality)
	}
}

func TestNormalize_NoConfig(t *testing.T) {
	def := &stage.StageDefinition{WorkflowID: int64(1)}
	Normalize(def)
	if def.WorkflowConfig != nil {
		t.Error("WorkflowConfig materialized out of nothing")
	}
	if def.TRSEndpoint != "" {
		t.Errorf("TRSEndpoint = %q", def.TRSEndpoint)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	def, diags := testValidator().Validate(load(t, `
workflow_id: 42
trs_endpoint: https://trs.example.org/api
workflow_config:
  nextflow: {}
params:
  x: 1
outputs:
  o:
    c-l-a-s-s: File
`))
	if diags != nil {
		t.Fatalf("expected valid, got %v", diags)
	}

	before := *def
	beforeOutputs := make(map[string]stage.OutputSpec, len(def.Outputs))
	for k, v := range def.Outputs {
		beforeOutputs[k] = v
	}

	Normalize(def)

	if def.TRSEndpoint != before.TRSEndpoint {
		t.Errorf("TRSEndpoint changed: %q -> %q", before.TRSEndpoint, def.TRSEndpoint)
	}
	if !reflect.DeepEqual(def.Outputs, beforeOutputs) {
		t.Errorf("Outputs changed: %+v -> %+v", beforeOutputs, def.Outputs)
	}
	if !reflect.DeepEqual(def.OutputNames, before.OutputNames) {
		t.Errorf("OutputNames changed: %v -> %v", before.OutputNames, def.OutputNames)
	}
}

func TestNormalize_RoundTripStability(t *testing.T) {
	// A validated definition re-emitted as a document must validate again
	// to the same normalized form.
	def, diags := testValidator().Validate(load(t, `
workflow_id: 42
trs_endpoint: https://trs.example.org/api
workflow_type: nextflow
params:
  input:
    c-l-a-s-s: File
    url: https://example.org/a.fastq
outputs:
  report:
    c-l-a-s-s: File
    cardinality: "?"
`))
	if diags != nil {
		t.Fatalf("expected valid, got %v", diags)
	}

	doc, err := stage.FromGo(def.Document())
	if err != nil {
		t.Fatalf("FromGo: %v", err)
	}
	again, diags := testValidator().Validate(doc)
	if diags != nil {
		t.Fatalf("re-emitted document did not validate:\n%v", diags)
	}
	if !reflect.DeepEqual(def, again) {
		t.Errorf("round trip diverged:\n%+v\n%+v", def, again)
	}
}

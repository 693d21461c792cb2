package stage

import "testing"

func TestCardinality_Bounds(t *testing.T) {
	tests := []struct {
		name    string
		card    Cardinality
		wantMin int64
		wantMax int64
	}{
		{"symbol 1", Cardinality{Kind: CardinalitySymbol, Symbol: "1"}, 1, 1},
		{"symbol ?", Cardinality{Kind: CardinalitySymbol, Symbol: "?"}, 0, 1},
		{"symbol *", Cardinality{Kind: CardinalitySymbol, Symbol: "*"}, 0, Unbounded},
		{"symbol +", Cardinality{Kind: CardinalitySymbol, Symbol: "+"}, 1, Unbounded},
		{"count 3", Cardinality{Kind: CardinalityCount, Count: 3}, 3, 3},
		{"count 0 is optional", Cardinality{Kind: CardinalityCount, Count: 0}, 0, 1},
		{"range", Cardinality{Kind: CardinalityRange, Min: 2, Max: 5}, 2, 5},
		{"unset", Cardinality{}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := tt.card.Bounds()
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("Bounds() = (%d, %d), want (%d, %d)", min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestDefaultCardinality(t *testing.T) {
	c := DefaultCardinality()
	if c.Kind != CardinalitySymbol || c.Symbol != "1" {
		t.Errorf("DefaultCardinality() = %+v", c)
	}
}

func TestResource_HasURL(t *testing.T) {
	r := &Resource{Class: ClassDirectory}
	if r.HasURL() {
		t.Error("HasURL() without URLs = true")
	}
	r.URLs = []string{"http://example.org/data"}
	if !r.HasURL() {
		t.Error("HasURL() with URLs = false")
	}
}

func TestStageDefinition_Document(t *testing.T) {
	secure := true
	def := &StageDefinition{
		TRSEndpoint:  "https://trs.example.org/",
		WorkflowID:   int64(42),
		WorkflowType: WorkflowTypeNextflow,
		WorkflowConfig: &WorkflowConfig{
			Secure:   &secure,
			Nextflow: &NextflowConfig{Version: DefaultNextflowVersion, Profile: "docker"},
		},
		Params: ParamMap{
			"greeting": {Kind: ScalarParam, Scalar: "hello"},
			"input": {Kind: ResourceParam, Resource: &Resource{
				Class: ClassFile,
				URLs:  []string{"https://example.org/a.fastq"},
			}},
		},
		Outputs: map[string]OutputSpec{
			"result": {Class: ClassFile, Cardinality: DefaultCardinality()},
		},
	}

	doc := def.Document()

	if doc["workflow_id"] != int64(42) {
		t.Errorf("workflow_id = %v", doc["workflow_id"])
	}
	if doc["paranoid_mode"] != false {
		t.Errorf("paranoid_mode = %v", doc["paranoid_mode"])
	}

	cfg, ok := doc["workflow_config"].(map[string]any)
	if !ok {
		t.Fatal("workflow_config missing")
	}
	nxf, ok := cfg["nextflow"].(map[string]any)
	if !ok {
		t.Fatal("nextflow missing")
	}
	if nxf["version"] != DefaultNextflowVersion || nxf["profile"] != "docker" {
		t.Errorf("nextflow = %v", nxf)
	}

	params, ok := doc["params"].(map[string]any)
	if !ok {
		t.Fatal("params missing")
	}
	if params["greeting"] != "hello" {
		t.Errorf("greeting = %v", params["greeting"])
	}
	res, ok := params["input"].(map[string]any)
	if !ok {
		t.Fatal("input resource missing")
	}
	if res[ClassKey] != ClassFile {
		t.Errorf("input class = %v", res[ClassKey])
	}
	// Single URL re-emits as a plain string.
	if res["url"] != "https://example.org/a.fastq" {
		t.Errorf("input url = %v", res["url"])
	}
	if res["autoFill"] != false || res["autoPrefix"] != false {
		t.Errorf("autoFill/autoPrefix defaults not emitted: %v", res)
	}

	outputs, ok := doc["outputs"].(map[string]any)
	if !ok {
		t.Fatal("outputs missing")
	}
	result, ok := outputs["result"].(map[string]any)
	if !ok {
		t.Fatal("result output missing")
	}
	if result["cardinality"] != "1" {
		t.Errorf("cardinality = %v", result["cardinality"])
	}
}

func TestResource_DocumentDirectoryWithURL(t *testing.T) {
	// A Directory with a url may not carry autoFill/autoPrefix, so the
	// re-emitted document must omit them.
	p := &Param{Kind: ResourceParam, Resource: &Resource{
		Class: ClassDirectory,
		URLs:  []string{"https://example.org/data", "https://example.org/more"},
	}}
	doc, ok := p.document().(map[string]any)
	if !ok {
		t.Fatal("expected mapping")
	}
	if _, present := doc["autoFill"]; present {
		t.Error("autoFill emitted for Directory with url")
	}
	if _, present := doc["autoPrefix"]; present {
		t.Error("autoPrefix emitted for Directory with url")
	}
	urls, ok := doc["url"].([]any)
	if !ok || len(urls) != 2 {
		t.Errorf("url = %v", doc["url"])
	}
}

func TestParam_DocumentNested(t *testing.T) {
	p := &Param{Kind: MapParam, Children: ParamMap{
		"inner": {Kind: ScalarListParam, List: []any{int64(1), int64(2)}},
	}}
	doc, ok := p.document().(map[string]any)
	if !ok {
		t.Fatal("expected mapping")
	}
	list, ok := doc["inner"].([]any)
	if !ok || len(list) != 2 {
		t.Errorf("inner = %v", doc["inner"])
	}
}

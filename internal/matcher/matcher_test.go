package matcher

import (
	"testing"
)

func TestPatternWordBoundaries(t *testing.T) {
	testCases := []struct {
		name  string
		alias string
		text  string
		want  bool
	}{
		{"exact match", "chart js", "I like chart js a lot", true},
		{"multi whitespace", "chart js", "chart \t  js is fine", true},
		{"glued prefix", "chartjs", "flowchartjs is different", false},
		{"glued suffix", "ag grid", "aggridding is not a thing", false},
		{"glued suffix single token", "grid", "gridded data", false},
		{"punctuation neighbors ok", "d3", "try d3.js today", true},
		{"start of text", "highcharts", "highcharts renders charts", true},
		{"end of text", "highcharts", "we chose highcharts", true},
		{"dotted alias literal", "chart.js", "chart.js is popular", true},
		{"dot escaped not wildcard", "chart.js", "chartxjs is popular", false},
		{"absent", "echarts", "no charting library here", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := CompileAlias(tc.alias).Match(tc.text)
			if got != tc.want {
				t.Errorf("CompileAlias(%q).Match(%q) = %v, want %v", tc.alias, tc.text, got, tc.want)
			}
		})
	}
}

func TestPatternCaseInsensitive(t *testing.T) {
	pattern := CompileAlias("highcharts")
	for _, text := range []string{"HIGHCHARTS", "Highcharts", "highcharts"} {
		if !pattern.Match(text) {
			t.Errorf("expected %q to match case-insensitively", text)
		}
	}
}

func TestBuildEntitySpecsOurBrandFirst(t *testing.T) {
	specs := BuildEntitySpecs(
		[]string{"EasyLLM", "Easy LLM"},
		[]string{"chart.js", "echarts"},
		map[string][]string{"chart.js": {"chartjs", "chart js"}},
	)

	if specs[0].Key != OurBrandKey {
		t.Fatalf("expected first spec key %q, got %q", OurBrandKey, specs[0].Key)
	}
	if specs[0].IsCompetitor {
		t.Errorf("our_brand spec must not be a competitor")
	}
	if len(specs[0].Aliases) != 2 {
		t.Errorf("expected 2 brand aliases, got %v", specs[0].Aliases)
	}
}

func TestBuildEntitySpecsGuaranteesCanonicalCompetitor(t *testing.T) {
	specs := BuildEntitySpecs([]string{"EasyLLM"}, []string{"chart.js"}, nil)

	// Canonical competitor omitted by the caller must be inserted first.
	if len(specs) != 3 {
		t.Fatalf("expected 3 specs, got %d", len(specs))
	}
	if specs[1].Label != CanonicalCompetitor {
		t.Errorf("expected inserted competitor %q first, got %q", CanonicalCompetitor, specs[1].Label)
	}
	if specs[1].Key != "highcharts" {
		t.Errorf("expected key highcharts, got %q", specs[1].Key)
	}
}

func TestBuildEntitySpecsCanonicalCasing(t *testing.T) {
	specs := BuildEntitySpecs([]string{"EasyLLM"}, []string{"HIGHCHARTS", "echarts"}, nil)
	if specs[1].Label != "Highcharts" {
		t.Errorf("expected canonical casing Highcharts, got %q", specs[1].Label)
	}
	if len(specs) != 3 {
		t.Errorf("expected no duplicate insertion, got %d specs", len(specs))
	}
}

func TestBuildEntitySpecsKeyCollisions(t *testing.T) {
	specs := BuildEntitySpecs([]string{"EasyLLM"}, []string{"Highcharts", "chart.js", "chart js"}, nil)

	keys := make(map[string]int)
	for _, spec := range specs {
		keys[spec.Key]++
	}
	for key, count := range keys {
		if count > 1 {
			t.Errorf("key %q appears %d times", key, count)
		}
	}
	// chart.js and "chart js" both slugify to chart_js; the second gets a suffix.
	if specs[3].Key != "chart_js_2" {
		t.Errorf("expected collision suffix chart_js_2, got %q", specs[3].Key)
	}
}

func TestDetectMentions(t *testing.T) {
	specs := BuildEntitySpecs(
		[]string{"EasyLLM"},
		[]string{"Highcharts", "chart.js"},
		map[string][]string{"chart.js": {"chart js", "chartjs"}},
	)
	patterns := CompileEntityPatterns(specs)

	mentions := DetectMentions("Highcharts and chart.js are great", patterns)
	if !mentions["highcharts"] {
		t.Errorf("expected highcharts mention")
	}
	if !mentions["chart_js"] {
		t.Errorf("expected chart_js mention")
	}
	if mentions[OurBrandKey] {
		t.Errorf("did not expect our_brand mention")
	}
}

func TestNormalizeTerms(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want []string
	}{
		{"basic", "EasyLLM, Easy LLM", []string{"EasyLLM", "Easy LLM"}},
		{"dedup case-insensitive", "EasyLLM, easyllm, EASYLLM", []string{"EasyLLM"}},
		{"empty falls back", "", []string{CanonicalCompetitor}},
		{"only separators falls back", " , ,, ", []string{CanonicalCompetitor}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeTerms(tc.raw)
			if len(got) != len(tc.want) {
				t.Fatalf("NormalizeTerms(%q) = %v, want %v", tc.raw, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("NormalizeTerms(%q)[%d] = %q, want %q", tc.raw, i, got[i], tc.want[i])
				}
			}
		})
	}
}

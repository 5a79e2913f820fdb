package markclass

import "testing"

func TestClassifyCascade(t *testing.T) {
	cases := []struct {
		name   string
		report VisionReport
		want   MarkType
	}{
		{
			name:   "placeholder phrase",
			report: VisionReport{DetectedText: "NO IMAGE EXISTS for this mark"},
			want:   NoImage,
		},
		{
			name:   "no words",
			report: VisionReport{DetectedText: "***"},
			want:   StylizedOrDesign,
		},
		{
			name:   "logo overrides text",
			report: VisionReport{DetectedText: "Acme", HasLogo: true},
			want:   StylizedOrDesign,
		},
		{
			name: "three labels",
			report: VisionReport{
				DetectedText: "Acme",
				Labels:       []Label{{"red", 0.2}, {"round", 0.2}, {"small", 0.2}},
			},
			want: StylizedOrDesign,
		},
		{
			name: "styling keyword above floor",
			report: VisionReport{
				DetectedText: "Acme",
				Labels:       []Label{{"cursive lettering", 0.5}},
			},
			want: StylizedOrDesign,
		},
		{
			name: "styling keyword at floor ignored",
			report: VisionReport{
				DetectedText: "Acme",
				Labels:       []Label{{"cursive lettering", 0.3}},
			},
			want: StandardText,
		},
		{
			name: "styling keyword matched case-insensitively",
			report: VisionReport{
				DetectedText: "Acme",
				Labels:       []Label{{"Ornate Border", 0.5}},
			},
			want: StylizedOrDesign,
		},
		{
			name:   "three words no labels",
			report: VisionReport{DetectedText: "Buy More Save More"},
			want:   Slogan,
		},
		{
			name: "three words two plain labels",
			report: VisionReport{
				DetectedText: "Buy More Save More",
				Labels:       []Label{{"text", 0.2}, {"words", 0.2}},
			},
			want: Slogan,
		},
		{
			name:   "short text no labels",
			report: VisionReport{DetectedText: "Acme"},
			want:   StandardText,
		},
		{
			name: "short text two labels",
			report: VisionReport{
				DetectedText: "Acme",
				Labels:       []Label{{"plain", 0.2}, {"small", 0.2}},
			},
			want: StylizedOrDesign,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.report); got != c.want {
				t.Errorf("Classify = %v, want %v", got, c.want)
			}
		})
	}
}

func TestWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"Buy More Save More", 4},
		{"ACME-2000", 2},
		{"", 0},
		{"!!! ***", 0},
	}
	for _, c := range cases {
		if got := Words(c.text); len(got) != c.want {
			t.Errorf("Words(%q) = %v, want %d tokens", c.text, got, c.want)
		}
	}
}

func TestClassifyByWordCount(t *testing.T) {
	cases := []struct {
		text string
		want MarkType
	}{
		{"", StylizedOrDesign},
		{"Acme", StandardText},
		{"Acme Widgets", StandardText},
		{"Quality You Can Trust", Slogan},
	}
	for _, c := range cases {
		if got := classifyByWordCount(c.text); got != c.want {
			t.Errorf("classifyByWordCount(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestMarkTypeString(t *testing.T) {
	cases := map[MarkType]string{
		NoImage:          "No Image",
		StandardText:     "Standard Text",
		StylizedOrDesign: "Stylized/Design",
		Slogan:           "Slogan",
	}
	for mt, want := range cases {
		if got := mt.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", mt, got, want)
		}
	}
}

func TestParseVisionReport(t *testing.T) {
	answer := `TEXT: ACME WIDGETS
HAS_LOGO: Yes
HAS_DESIGN: no
VISUAL_ELEMENTS: bold font, red circle
COMPLEXITY: moderate`
	report := ParseVisionReport(answer)
	if report.DetectedText != "ACME WIDGETS" {
		t.Errorf("text = %q", report.DetectedText)
	}
	if !report.HasLogo || report.HasDesign {
		t.Errorf("flags = logo %v design %v", report.HasLogo, report.HasDesign)
	}
	// Two visual elements at 0.8 plus the complexity pair at 0.9.
	if len(report.Labels) != 4 {
		t.Fatalf("labels = %+v", report.Labels)
	}
	if report.Labels[0].Text != "bold font" || report.Labels[0].Confidence != 0.8 {
		t.Errorf("label 0 = %+v", report.Labels[0])
	}
	if report.Labels[2].Text != "complex" || report.Labels[2].Confidence != 0.9 {
		t.Errorf("label 2 = %+v", report.Labels[2])
	}
}

func TestParseVisionReportMissingLines(t *testing.T) {
	report := ParseVisionReport("unstructured answer")
	if report.DetectedText != "" || report.HasLogo || len(report.Labels) != 0 {
		t.Errorf("got %+v, want zero report", report)
	}
}

package ttabvue

import "testing"

func TestExtractTimeline(t *testing.T) {
	doc := mustParse(t, proceedingHTML)
	tl := ExtractTimeline(doc)
	if tl.FilingDate != "04/15/2021" {
		t.Errorf("filing date = %q", tl.FilingDate)
	}
	if tl.TerminationDate != "06/30/2023" {
		t.Errorf("termination date = %q", tl.TerminationDate)
	}
	if tl.Outcome != OutcomeDismissed {
		t.Errorf("outcome = %v, want dismissed", tl.Outcome)
	}
}

func TestTimelineLastDatedRowWins(t *testing.T) {
	doc := mustParse(t, `<table>
		<tr><td>Prosecution History</td></tr>
		<tr><td>1</td><td>03/01/2020</td><td>FILED AND FEE</td></tr>
		<tr><td>2</td><td>05/10/2021</td><td>TERMINATED</td></tr>
		<tr><td>3</td><td></td><td>UNDATED NOTE</td></tr>
	</table>`)
	tl := ExtractTimeline(doc)
	if tl.TerminationDate != "05/10/2021" {
		t.Errorf("termination date = %q, want 05/10/2021", tl.TerminationDate)
	}
	if tl.Outcome != OutcomePending {
		t.Errorf("outcome = %v, want pending", tl.Outcome)
	}
}

func TestTimelineOutcomeKeywords(t *testing.T) {
	cases := []struct {
		name string
		rows string
		want Outcome
	}{
		{
			name: "sustained wins within one row",
			rows: `<tr><td>1</td><td>06/30/2023</td><td>SUSTAINED IN PART, DISMISSED IN PART</td></tr>`,
			want: OutcomeSustained,
		},
		{
			name: "later row overrides earlier",
			rows: `<tr><td>1</td><td>06/30/2022</td><td>OPPOSITION SUSTAINED</td></tr>
			       <tr><td>2</td><td>09/14/2022</td><td>ON RECONSIDERATION: DISMISSED</td></tr>`,
			want: OutcomeDismissed,
		},
		{
			name: "no keywords",
			rows: `<tr><td>1</td><td>06/30/2023</td><td>SUSPENDED</td></tr>`,
			want: OutcomePending,
		},
		{
			name: "case-insensitive match",
			rows: `<tr><td>1</td><td>06/30/2023</td><td>Opposition dismissed with prejudice</td></tr>`,
			want: OutcomeDismissed,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			doc := mustParse(t, `<table><tr><td>Prosecution History</td></tr>`+c.rows+`</table>`)
			if tl := ExtractTimeline(doc); tl.Outcome != c.want {
				t.Errorf("outcome = %v, want %v", tl.Outcome, c.want)
			}
		})
	}
}

func TestFilingDateLabelCaseInsensitive(t *testing.T) {
	doc := mustParse(t, `<table>
		<tr><td>FILING DATE</td><td>09/02/2022</td></tr>
	</table>`)
	if tl := ExtractTimeline(doc); tl.FilingDate != "09/02/2022" {
		t.Errorf("filing date = %q, want 09/02/2022", tl.FilingDate)
	}
}

func TestTimelineNoHistoryTable(t *testing.T) {
	doc := mustParse(t, `<table>
		<tr><td>Filing Date:</td><td>04/15/2021</td></tr>
	</table>`)
	tl := ExtractTimeline(doc)
	if tl.FilingDate != "04/15/2021" {
		t.Errorf("filing date = %q", tl.FilingDate)
	}
	if tl.TerminationDate != "" || tl.Outcome != OutcomePending {
		t.Errorf("got %+v, want pending with no termination date", tl)
	}
}

package entity

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateFileIsCSV(t *testing.T) {
	cases := []struct {
		name string
		file CandidateFile
		want bool
	}{
		{"csv type", CandidateFile{Name: "export", MediaType: "text/csv"}, true},
		{"csv type with params", CandidateFile{Name: "export", MediaType: "text/csv; charset=utf-8"}, false},
		{"csv type upper case", CandidateFile{Name: "export", MediaType: "Text/CSV"}, false},
		{"csv suffix, other type", CandidateFile{Name: "invoices.csv", MediaType: "application/vnd.ms-excel"}, true},
		{"csv suffix, no type", CandidateFile{Name: "invoices.csv"}, true},
		{"upper case suffix", CandidateFile{Name: "INVOICES.CSV", MediaType: "application/octet-stream"}, false},
		{"plain text", CandidateFile{Name: "data.txt", MediaType: "text/plain"}, false},
		{"csv in middle", CandidateFile{Name: "data.csv.txt", MediaType: "text/plain"}, false},
		{"empty", CandidateFile{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.file.IsCSV())
		})
	}
}

func TestIntakeSubmitDroppedPicksFirstCSV(t *testing.T) {
	txt := CandidateFile{Name: "notes.txt", MediaType: "text/plain"}
	png := CandidateFile{Name: "logo.png", MediaType: "image/png"}
	first := CandidateFile{Name: "a.csv", MediaType: "text/csv"}
	second := CandidateFile{Name: "b.csv", MediaType: "text/csv"}

	var in Intake
	got, ok := in.SubmitDropped([]CandidateFile{txt, png, first, txt, second})
	require.True(t, ok)
	assert.Equal(t, "a.csv", got.Name)

	held, ok := in.Held()
	require.True(t, ok)
	assert.Equal(t, "a.csv", held.Name)
}

func TestIntakeSubmitDroppedWithoutCSVKeepsHeld(t *testing.T) {
	var in Intake
	_, ok := in.SubmitDropped([]CandidateFile{{Name: "data.txt", MediaType: "text/plain"}})
	assert.False(t, ok)
	_, held := in.Held()
	assert.False(t, held, "nothing should be staged for a text file")

	in.SubmitPicked(&CandidateFile{Name: "keep.csv"})
	_, ok = in.SubmitDropped(nil)
	assert.False(t, ok)

	got, held := in.Held()
	require.True(t, held)
	assert.Equal(t, "keep.csv", got.Name)
}

func TestIntakeSubmitPickedReplacesAndRejects(t *testing.T) {
	var in Intake

	_, ok := in.SubmitPicked(nil)
	assert.False(t, ok)

	_, ok = in.SubmitPicked(&CandidateFile{Name: "one.csv"})
	require.True(t, ok)
	_, ok = in.SubmitPicked(&CandidateFile{Name: "two", MediaType: "text/csv"})
	require.True(t, ok)

	got, _ := in.Held()
	assert.Equal(t, "two", got.Name, "a new pick replaces the held file")

	_, ok = in.SubmitPicked(&CandidateFile{Name: "three.xlsx"})
	assert.False(t, ok)
	got, _ = in.Held()
	assert.Equal(t, "two", got.Name)
}

func TestIntakeClearIsIdempotent(t *testing.T) {
	var in Intake
	in.SubmitPicked(&CandidateFile{Name: "one.csv"})

	in.Clear()
	_, held := in.Held()
	assert.False(t, held)

	in.Clear()
	_, held = in.Held()
	assert.False(t, held)
}

func TestIntakeHoldsCopy(t *testing.T) {
	var in Intake
	f := CandidateFile{Name: "one.csv", Content: []byte("Invoice Amount\n1\n")}
	in.SubmitPicked(&f)
	f.Name = "changed.csv"

	got, _ := in.Held()
	assert.Equal(t, "one.csv", got.Name)

	data, err := io.ReadAll(got.Open())
	require.NoError(t, err)
	assert.Equal(t, "Invoice Amount\n1\n", string(data))
}

func TestSessionDismissResetsState(t *testing.T) {
	s := Session{
		ID:          "s-1",
		Result:      &AggregationResult{Total: 30.5},
		SummaryOpen: true,
		LastError:   "old",
	}
	s.Intake.SubmitPicked(&CandidateFile{Name: "x.csv"})

	s.Dismiss()

	assert.False(t, s.SummaryOpen)
	assert.Nil(t, s.Result)
	assert.Empty(t, s.LastError)
	_, held := s.Intake.Held()
	assert.False(t, held)
	assert.Equal(t, "s-1", s.ID)
}

package entity

// Intake holds at most one CandidateFile. The zero value is empty and ready.
type Intake struct {
	held *CandidateFile
}

// SubmitDropped stages the first CSV file of a drop, in order. Entries that
// do not qualify are ignored. When nothing qualifies the held file is left
// untouched and ok is false.
func (in *Intake) SubmitDropped(files []CandidateFile) (CandidateFile, bool) {
	for _, f := range files {
		if f.IsCSV() {
			in.hold(f)
			return f, true
		}
	}
	return CandidateFile{}, false
}

// SubmitPicked stages a file chosen through a file picker. A nil or non-CSV
// file is ignored.
func (in *Intake) SubmitPicked(file *CandidateFile) (CandidateFile, bool) {
	if file == nil || !file.IsCSV() {
		return CandidateFile{}, false
	}
	in.hold(*file)
	return *file, true
}

// Clear drops the held file. Clearing an empty intake is a no-op.
func (in *Intake) Clear() {
	in.held = nil
}

// Held returns the staged file, if any.
func (in *Intake) Held() (CandidateFile, bool) {
	if in.held == nil {
		return CandidateFile{}, false
	}
	return *in.held, true
}

func (in *Intake) hold(f CandidateFile) {
	in.held = &f
}

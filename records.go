package mdmath

// Block kinds in a BlockRecord.
const (
	KindText = "text"
	KindMath = "math"
)

// BlockRecord is the serializable form of a Block.
type BlockRecord struct {
	Kind    string `json:"kind" yaml:"kind"`
	Content string `json:"content" yaml:"content"`
}

// FailureRecord is the serializable form of a BlockFailure.
type FailureRecord struct {
	Index int    `json:"index" yaml:"index"`
	Stage string `json:"stage" yaml:"stage"`
	Error string `json:"error" yaml:"error"`
}

// ReportRecord is the serializable form of a Report.
type ReportRecord struct {
	Blocks    int             `json:"blocks" yaml:"blocks"`
	Retried   int             `json:"retried" yaml:"retried"`
	Fallbacks int             `json:"fallbacks" yaml:"fallbacks"`
	Failures  []FailureRecord `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// BlockRecords converts blocks for JSON or YAML output. It never returns
// nil so an empty classification encodes as an empty list.
func BlockRecords(blocks []Block) []BlockRecord {
	out := make([]BlockRecord, 0, len(blocks))
	for _, blk := range blocks {
		switch b := blk.(type) {
		case TextBlock:
			out = append(out, BlockRecord{Kind: KindText, Content: b.Markup})
		case MathBlock:
			out = append(out, BlockRecord{Kind: KindMath, Content: b.Formula})
		}
	}
	return out
}

// NewReportRecord converts r for JSON or YAML output.
func NewReportRecord(r Report) ReportRecord {
	rec := ReportRecord{Blocks: r.Blocks, Retried: r.Retried, Fallbacks: r.Fallbacks}
	for _, f := range r.Failures {
		msg := ""
		if f.Err != nil {
			msg = f.Err.Error()
		}
		rec.Failures = append(rec.Failures, FailureRecord{Index: f.Index, Stage: string(f.Stage), Error: msg})
	}
	return rec
}

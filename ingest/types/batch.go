package types

// Batch is an ordered group of records read from one source.  Records keep their input line order.
// A dispatched batch is owned by the engine; the ingestion loop never touches it again.
type Batch struct {
	Records []Record

	// Source is the name of the ingestion unit that produced the batch.
	Source string
	// Seq is the dispatch order of the batch within its run, starting at 0.
	Seq uint64
}

func NewBatch(source string, seq uint64, capacity int) *Batch {
	return &Batch{
		Records: make([]Record, 0, capacity),
		Source:  source,
		Seq:     seq,
	}
}

func (b *Batch) Len() int {
	return len(b.Records)
}

func (b *Batch) Append(r Record) {
	b.Records = append(b.Records, r)
}

package pageproof

import "encoding/json"

// BatchItem is the wire form of a collected text item.
type BatchItem struct {
	Idx  int    `json:"idx"`
	Text string `json:"text"`
}

// NewBatchItem converts a collected item to its wire form.
func NewBatchItem(item TextItem) BatchItem {
	return BatchItem{Idx: item.Index, Text: item.Text}
}

// Batch is an ordered group of items whose encoded form fits within the
// packer's token budget.
type Batch struct {
	Items []BatchItem
}

// Encode renders the batch in the request wire format: a JSON array of
// {"idx": n, "text": s} objects.
func (b *Batch) Encode() ([]byte, error) {
	items := b.Items
	if items == nil {
		items = []BatchItem{}
	}
	return json.Marshal(items)
}

// Indices returns the set of item indices the batch contains. Dispatchers
// use it to reject corrections that reference indices never sent.
func (b *Batch) Indices() map[int]bool {
	set := make(map[int]bool, len(b.Items))
	for _, item := range b.Items {
		set[item.Idx] = true
	}
	return set
}

package bpe

import "unicode/utf8"

// Entry is a piece of the subword vocabulary with the number of times it
// occurred in the segmented training words.
type Entry struct {
	Piece string `json:"piece"`
	Count int    `json:"count"`
}

// SortPieces implements sort.Interface to sort by piece, longest first
type SortPieces []Entry

// Len implements sort.Interface
func (b SortPieces) Len() int { return len(b) }

// Less implements sort.Interface
func (b SortPieces) Less(i, j int) bool {
	li, lj := utf8.RuneCountInString(b[i].Piece), utf8.RuneCountInString(b[j].Piece)
	if li == lj {
		return b[i].Piece < b[j].Piece
	}
	return li > lj
}

// Swap implements sort.Interface
func (b SortPieces) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

// SortPopularity implements sort.Interface to sort by counts, most frequent first
type SortPopularity []Entry

// Len implements sort.Interface
func (b SortPopularity) Len() int { return len(b) }

// Less implements sort.Interface
func (b SortPopularity) Less(i, j int) bool {
	if b[i].Count == b[j].Count {
		// fall back to the piece order if counts are equal
		return SortPieces(b).Less(i, j)
	}
	return b[i].Count > b[j].Count
}

// Swap implements sort.Interface
func (b SortPopularity) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

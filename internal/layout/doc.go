// Package layout provides the bidirectional character table between the
// Latin (EN) and Cyrillic JCUKEN (RU) keyboard layouts.
//
// A Table pairs two equal-length rune arrays position by position: the rune
// at index i of the EN array is produced by the same physical key as the rune
// at index i of the RU array. Two lookup maps are built once when the table is
// constructed, so translation is an O(1) map read.
//
// # Directions
//
// Translation is keyed by Direction. ENToRU reads a rune from the EN array and
// returns its RU counterpart; RUToEN does the reverse. Runes absent from the
// source array of a direction pass through unchanged, so Translate is total:
//
//	t := layout.Default()
//	t.Translate('h', layout.ENToRU)   // 'р'
//	t.Translate('р', layout.RUToEN)   // 'h'
//	t.Translate('1', layout.ENToRU)   // '1'
//
// For every rune c of the EN array, Translate(Translate(c, ENToRU), RUToEN)
// returns c, and symmetrically for the RU array.
//
// # Flags
//
// Flag is the editor's two-valued input layout (EN=0, RU=1). The direction
// used to reinterpret text typed under a flag is Flag.Direction.
//
// # Streaming
//
// Table.Transformer exposes a direction as a golang.org/x/text
// transform.Transformer for use with transform.NewReader and friends.
package layout

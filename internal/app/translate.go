package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/transform"

	"github.com/dshills/layoutswitch/internal/layout"
)

// ErrUndetectable is returned by Translate in auto mode when the input has
// no characters from either layout.
var ErrUndetectable = errors.New("cannot detect layout of input")

// Translate copies src to dst with every character remapped.
//
// target is "ru" or "en" to force the output layout, or "auto" to pick the
// direction that fixes the input, which is then read into memory. Other
// input is streamed.
func Translate(table *layout.Table, dst io.Writer, src io.Reader, target string) error {
	var d layout.Direction
	switch target {
	case "auto", "":
		data, err := io.ReadAll(src)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		var ok bool
		if d, ok = table.Detect(string(data)); !ok {
			if len(bytes.TrimSpace(data)) == 0 {
				_, err := dst.Write(data)
				return err
			}
			return ErrUndetectable
		}
		src = bytes.NewReader(data)
	default:
		var err error
		if d, err = layout.ParseDirection(target); err != nil {
			return err
		}
	}

	if _, err := io.Copy(dst, transform.NewReader(src, table.Transformer(d))); err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	return nil
}

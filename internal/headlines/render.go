package headlines

import (
	"fmt"
	"io"
)

// Render writes cards as plain text blocks separated by blank lines.
func Render(w io.Writer, cards []NewsCard) error {
	for i, c := range cards {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "> %s\n%s\n- %s\n", c.Title, c.Desc, c.URL); err != nil {
			return err
		}
	}
	return nil
}

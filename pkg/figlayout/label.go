package figlayout

import (
	"strings"

	"github.com/panelize/panelize/pkg/errors"
)

// LabelText renders the panel label for a zero-based index under the given
// scheme: "(a)" and "(A)" wrap the letter in parentheses, "a" and "A" emit
// the bare letter. Indexes past "z" continue with doubled letters ("aa").
func LabelText(scheme string, index int) (string, error) {
	if err := errors.ValidateLabelScheme(scheme); err != nil {
		return "", err
	}
	if index < 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "label index %d is negative", index)
	}

	base := 'a'
	if strings.Contains(scheme, "A") {
		base = 'A'
	}

	letter := string(rune(base) + rune(index%26))
	if reps := index/26 + 1; reps > 1 {
		letter = strings.Repeat(letter, reps)
	}

	if strings.HasPrefix(scheme, "(") {
		return "(" + letter + ")", nil
	}
	return letter, nil
}

// AutoLabel assigns panel labels to every cell in reading order (depth-first,
// children in stored order), using the document's label scheme and color.
// Existing labels are overwritten.
func (d *Document) AutoLabel() error {
	for i, id := range d.Tree.Leaves() {
		text, err := LabelText(d.Label.Scheme, i)
		if err != nil {
			return err
		}
		if err := d.Tree.SetLabel(id, text, d.Label.Color); err != nil {
			return err
		}
	}
	return nil
}

// ClearLabels removes the panel label from every cell.
func (d *Document) ClearLabels() error {
	for _, id := range d.Tree.Leaves() {
		if err := d.Tree.SetLabel(id, "", ""); err != nil {
			return err
		}
	}
	return nil
}

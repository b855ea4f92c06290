package htmlutil

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument parses raw html into a queryable document.
func ParseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

// IdSelector returns a selector matching the element with the given id attribute.
// An attribute selector is used so that ids which are not valid css identifiers
// (ex. ones starting with a digit) still match.
func IdSelector(id string) string {
	return fmt.Sprintf(`[id="%s"]`, id)
}

// InputSelector returns a selector matching input fields with the given name.
func InputSelector(name string) string {
	return fmt.Sprintf(`input[name="%s"]`, name)
}

// Attr returns the attribute of the first element matching selector, the bool is
// false when either the element or the attribute is missing.
func Attr(doc *goquery.Document, selector, attr string) (string, bool) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return "", false
	}
	return sel.Attr(attr)
}

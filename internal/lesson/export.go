package lesson

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

const docHeader = `<html xmlns:o='urn:schemas-microsoft-com:office:office' ` +
	`xmlns:w='urn:schemas-microsoft-com:office:word' ` +
	`xmlns='http://www.w3.org/TR/REC-html40'>` +
	`<head><meta charset='utf-8'><title>%s</title></head><body>`

const docFooter = `</body></html>`

// Export renders l as HTML that word processors open as a .doc file.
// Vocabulary items carry data attributes so ParseVocabulary can read them
// back without guessing at the display format.
func Export(l *Lesson) []byte {
	var b bytes.Buffer
	esc := html.EscapeString

	fmt.Fprintf(&b, docHeader, esc(l.Title))
	fmt.Fprintf(&b, "<h1>%s</h1>", esc(l.Title))
	fmt.Fprintf(&b, "<p><strong>Summary:</strong> %s</p><hr/>", esc(l.Summary))
	fmt.Fprintf(&b, "<div>%s</div>", strings.ReplaceAll(esc(l.FullText), "\n", "<br/>"))

	b.WriteString("<hr/><h3>Vocabulary List</h3><ul>")
	for _, v := range l.Vocabulary {
		fmt.Fprintf(&b,
			`<li data-word="%s" data-type="%s" data-ipa="%s" data-definition="%s" data-meaning="%s">`+
				`<strong>%s</strong> (%s) [%s]: %s - %s</li>`,
			attr(v.Word), attr(v.Type), attr(v.IPA), attr(v.EnglishDefinition), attr(v.Meaning),
			esc(v.Word), esc(v.Type), esc(v.IPA), esc(v.EnglishDefinition), esc(v.Meaning),
		)
	}
	b.WriteString("</ul>")
	b.WriteString(docFooter)
	return b.Bytes()
}

// attr escapes an attribute value. Carriage returns become character
// references, since HTML parsers fold raw CR and CRLF into LF.
func attr(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\r", "&#13;")
}

var nonAlnum = regexp.MustCompile(`(?i)[^a-z0-9]`)

// Filename derives the export file name from a lesson title.
func Filename(title string) string {
	name := strings.ToLower(nonAlnum.ReplaceAllString(title, "_"))
	if strings.Trim(name, "_") == "" {
		name = "lesson"
	}
	return name + ".doc"
}

// ParseVocabulary reads the vocabulary list back out of an exported document.
// Parsed entries have no ID and are marked resolved.
func ParseVocabulary(r io.Reader) ([]Vocabulary, error) {
	doc, err := xhtml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse exported lesson: %w", err)
	}

	var out []Vocabulary
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "li" {
			if v, ok := vocabularyFromAttrs(n.Attr); ok {
				out = append(out, v)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func vocabularyFromAttrs(attrs []xhtml.Attribute) (Vocabulary, bool) {
	var v Vocabulary
	found := false
	for _, a := range attrs {
		switch a.Key {
		case "data-word":
			v.Word = a.Val
			found = true
		case "data-type":
			v.Type = a.Val
		case "data-ipa":
			v.IPA = a.Val
		case "data-definition":
			v.EnglishDefinition = a.Val
		case "data-meaning":
			v.Meaning = a.Val
		}
	}
	return v, found
}

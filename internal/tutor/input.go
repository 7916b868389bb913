package tutor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Input is material submitted for analysis: either pasted Text, or the
// bytes of a file with its MIME type.
type Input struct {
	Text     string
	Data     []byte
	MIMEType string

	// Name is where Data came from, usually a file path.
	Name string
}

// TextInput wraps pasted text.
func TextInput(text string) Input {
	return Input{Text: text}
}

// FileInput wraps file contents. An empty mimeType is sniffed from data.
func FileInput(name string, data []byte, mimeType string) Input {
	return Input{Name: name, Data: data, MIMEType: mimeType}
}

// MaxFileSize caps what is read from disk for one submission.
const MaxFileSize = 20 << 20

var (
	ErrEmptyInput       = errors.New("nothing to analyze")
	ErrUnsupportedInput = errors.New("unsupported file type")
)

// normalize sniffs the MIME type of binary input and turns plain-text
// files into Text.
func (in Input) normalize() (Input, error) {
	if len(in.Data) == 0 {
		if strings.TrimSpace(in.Text) == "" {
			return in, ErrEmptyInput
		}
		in.MIMEType = ""
		return in, nil
	}

	mt := strings.ToLower(strings.TrimSpace(in.MIMEType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	if mt == "" || mt == "application/octet-stream" {
		mt = SniffMIME(in.Data)
	}
	in.MIMEType = mt

	switch {
	case strings.HasPrefix(mt, "image/"), mt == "application/pdf":
		return in, nil
	case strings.HasPrefix(mt, "text/"):
		if !utf8.Valid(in.Data) {
			return in, fmt.Errorf("%w: text is not UTF-8", ErrUnsupportedInput)
		}
		text := string(in.Data)
		if strings.TrimSpace(text) == "" {
			return in, ErrEmptyInput
		}
		return Input{Text: text, Name: in.Name}, nil
	default:
		return in, fmt.Errorf("%w: %s", ErrUnsupportedInput, mt)
	}
}

func (in Input) isBinary() bool { return len(in.Data) > 0 }

func (in Input) isImage() bool {
	return in.isBinary() && strings.HasPrefix(in.MIMEType, "image/")
}

func (in Input) sourceName() string {
	if in.Name == "" {
		return in.MIMEType
	}
	return filepath.Base(in.Name)
}

// SniffMIME detects the media type of data, without parameters.
func SniffMIME(data []byte) string {
	mt := mimetype.Detect(data).String()
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	return mt
}

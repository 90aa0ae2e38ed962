package printer

import (
	"fmt"
	"strings"
)

// DefaultWidth is the column count of 58mm thermal paper.
const DefaultWidth = 32

// Align is the horizontal alignment of a line.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

func (a Align) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

func (a Align) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Style is the typography a line is printed with.
type Style struct {
	Align  Align `json:"align"`
	Bold   bool  `json:"bold,omitempty"`
	Double bool  `json:"double,omitempty"`
}

// LineKind identifies how a Line is laid out.
type LineKind int

const (
	LineText LineKind = iota
	LineKeyValue
	LineSeparator
	LineFeed
)

var lineKindNames = map[LineKind]string{
	LineText:      "text",
	LineKeyValue:  "key_value",
	LineSeparator: "separator",
	LineFeed:      "feed",
}

func (k LineKind) String() string {
	if name, ok := lineKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func (k LineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Line is one printable row. For LineKeyValue, Text holds the label.
// For LineSeparator, Text holds the repeated character. For LineFeed,
// Count is the number of blank lines.
type Line struct {
	Kind  LineKind `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Value string   `json:"value,omitempty"`
	Count int      `json:"count,omitempty"`
	Style Style    `json:"style"`
}

// Section is a named group of lines (header, items, totals, footer).
type Section struct {
	Name  string `json:"name"`
	Lines []Line `json:"lines"`
}

// Document is a transport-independent receipt. Templates build it, the
// ESC/POS encoder and the plain-text renderer consume it.
type Document struct {
	Template  string    `json:"template"`
	Width     int       `json:"width"`
	Sections  []Section `json:"sections"`
	LogoURL   string    `json:"logo_url,omitempty"`
	QRPayload string    `json:"qr_payload,omitempty"`
	Cut       bool      `json:"cut"`

	style Style
}

// NewDocument creates an empty document with the given character width.
// Common widths: 32 for 58mm paper, 48 for 80mm paper.
func NewDocument(charWidth int) *Document {
	if charWidth <= 0 {
		charWidth = DefaultWidth
	}
	return &Document{Width: charWidth}
}

// Section starts a new named section; following lines are appended to it.
func (d *Document) Section(name string) *Document {
	d.Sections = append(d.Sections, Section{Name: name})
	return d
}

// SetAlign sets the alignment for following lines.
func (d *Document) SetAlign(align Align) *Document {
	d.style.Align = align
	return d
}

// SetBold enables or disables bold for following lines.
func (d *Document) SetBold(on bool) *Document {
	d.style.Bold = on
	return d
}

// SetDouble enables or disables double width and height for following lines.
func (d *Document) SetDouble(on bool) *Document {
	d.style.Double = on
	return d
}

// Text appends a line of text.
func (d *Document) Text(s string) *Document {
	return d.add(Line{Kind: LineText, Text: s})
}

// TextF appends a formatted line of text.
func (d *Document) TextF(format string, args ...interface{}) *Document {
	return d.Text(fmt.Sprintf(format, args...))
}

// KeyValue appends a left-aligned label with a right-aligned value.
// Example: "SUBTOTAL                  20.000"
func (d *Document) KeyValue(key, value string) *Document {
	return d.add(Line{Kind: LineKeyValue, Text: key, Value: value})
}

// ItemLine appends "qty x name" with the right-aligned total.
// Example: "2x Iced Latte             40.000"
func (d *Document) ItemLine(qty int, name, total string) *Document {
	return d.KeyValue(fmt.Sprintf("%dx %s", qty, name), total)
}

// Separator appends a full-width rule of the given character.
func (d *Document) Separator(char byte) *Document {
	return d.add(Line{Kind: LineSeparator, Text: string(char)})
}

// FeedLines appends n blank lines.
func (d *Document) FeedLines(n int) *Document {
	if n <= 0 {
		return d
	}
	return d.add(Line{Kind: LineFeed, Count: n})
}

// WithCut requests a paper cut after the last line.
func (d *Document) WithCut() *Document {
	d.Cut = true
	return d
}

// WithLogo attaches a logo reference for on-screen templates.
func (d *Document) WithLogo(url string) *Document {
	d.LogoURL = url
	return d
}

// WithQRCode attaches a QR payload for on-screen templates.
func (d *Document) WithQRCode(payload string) *Document {
	d.QRPayload = payload
	return d
}

// Lines returns every line across all sections in order.
func (d *Document) Lines() []Line {
	var out []Line
	for _, s := range d.Sections {
		out = append(out, s.Lines...)
	}
	return out
}

// FindSection returns the named section, or nil.
func (d *Document) FindSection(name string) *Section {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}

func (d *Document) add(l Line) *Document {
	if len(d.Sections) == 0 {
		d.Section("body")
	}
	l.Style = d.style
	last := &d.Sections[len(d.Sections)-1]
	last.Lines = append(last.Lines, l)
	return d
}

// PadEnd lays a label and value out on one line of the given width: the
// label is padded with spaces to width-len(value) columns and the value
// follows. A label that does not fit is neither truncated nor separated.
func PadEnd(label, value string, width int) string {
	pad := width - runeLen(value) - runeLen(label)
	if pad < 0 {
		pad = 0
	}
	return label + strings.Repeat(" ", pad) + value
}

// RenderText flattens the document to plain text, one line per row, using
// the same column layout the printer receives.
func (d *Document) RenderText() string {
	width := d.Width
	if width <= 0 {
		width = DefaultWidth
	}
	var b strings.Builder
	for _, l := range d.Lines() {
		b.WriteString(l.layout(width))
	}
	return b.String()
}

// layout renders a line's text including its trailing newline(s).
func (l Line) layout(width int) string {
	switch l.Kind {
	case LineKeyValue:
		return PadEnd(l.Text, l.Value, width) + "\n"
	case LineSeparator:
		char := l.Text
		if char == "" {
			char = "-"
		}
		return strings.Repeat(char, width) + "\n"
	case LineFeed:
		return strings.Repeat("\n", l.Count)
	default:
		return l.Text + "\n"
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}

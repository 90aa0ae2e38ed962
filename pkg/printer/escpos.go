package printer

import "bytes"

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

var (
	cmdInit        = []byte{ESC, '@'}
	cmdLineFeed    = []byte{LF}
	cmdAlignLeft   = []byte{ESC, 'a', 0x00}
	cmdAlignCenter = []byte{ESC, 'a', 0x01}
	cmdBoldOff     = []byte{ESC, 'E', 0x00}
	cmdBoldOn      = []byte{ESC, 'E', 0x01}
	cmdSizeNormal  = []byte{GS, '!', 0x00}
	cmdSizeDouble  = []byte{GS, '!', 0x11}
	cmdCut         = []byte{GS, 'V', 0x42, 0x00}
)

// EncodeSegments serializes a document into ordered ESC/POS segments: one
// per command and one per text row. The printer starts from its reset
// state, so a style command is only emitted when the style changes.
func EncodeSegments(doc *Document) [][]byte {
	width := doc.Width
	if width <= 0 {
		width = DefaultWidth
	}

	segments := [][]byte{cmdInit}
	var current Style

	for _, l := range doc.Lines() {
		if l.Style.Align != current.Align {
			if l.Style.Align == AlignCenter {
				segments = append(segments, cmdAlignCenter)
			} else {
				segments = append(segments, cmdAlignLeft)
			}
		}
		if l.Style.Bold != current.Bold {
			if l.Style.Bold {
				segments = append(segments, cmdBoldOn)
			} else {
				segments = append(segments, cmdBoldOff)
			}
		}
		if l.Style.Double != current.Double {
			if l.Style.Double {
				segments = append(segments, cmdSizeDouble)
			} else {
				segments = append(segments, cmdSizeNormal)
			}
		}
		current = l.Style

		if l.Kind == LineFeed {
			for i := 0; i < l.Count; i++ {
				segments = append(segments, cmdLineFeed)
			}
			continue
		}
		segments = append(segments, textBytes(l.layout(width)))
	}

	if doc.Cut {
		segments = append(segments, cmdCut)
	}
	return segments
}

// Encode serializes a document into a single ESC/POS byte stream.
func Encode(doc *Document) []byte {
	segments := EncodeSegments(doc)
	return bytes.Join(segments, nil)
}

// textBytes is the text encoder step; printers receive UTF-8.
func textBytes(s string) []byte {
	return []byte(s)
}

package functions

import (
	"strings"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Text layout functions: word wrapping, columns, and tables.

// visLen returns the visual (display) length of a string, ignoring ANSI
// escape sequences (\033[...m) which occupy zero columns.
func visLen(s string) int {
	n := 0
	inEsc := false
	for i := 0; i < len(s); i++ {
		if inEsc {
			if s[i] == 'm' {
				inEsc = false
			}
			continue
		}
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			inEsc = true
			i++ // skip '['
			continue
		}
		n++
	}
	return n
}

// fnWrap performs word-wrapping at a given width.
//
//	wrap(<text>, <width>[, <left indent>[, <hanging indent>]])
//
// Wraps text to the specified width (minimum 1, default 78), breaking on word
// boundaries when possible. Words longer than the available line width are
// hard-broken. Existing newlines in the input are preserved as paragraph
// breaks. ANSI escape sequences are not counted toward line width.
func fnWrap(_ *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 1 {
		return
	}
	text := args[0]
	width := 78
	if len(args) >= 2 {
		width = toInt(args[1])
	}
	if width < 1 {
		width = 1
	}

	leftIndent := ""
	hangIndent := ""
	if len(args) >= 3 {
		n := toInt(args[2])
		if n > 0 && n < width {
			leftIndent = strings.Repeat(" ", n)
		}
	}
	if len(args) >= 4 {
		n := toInt(args[3])
		if n > 0 && n < width {
			hangIndent = strings.Repeat(" ", n)
		}
	}

	// Split on existing newlines to preserve paragraph structure
	paragraphs := strings.Split(text, "\n")
	for pi, para := range paragraphs {
		if pi > 0 {
			buf.WriteString("\r\n")
		}
		para = strings.TrimRight(para, "\r")
		wrapParagraph(buf, para, width, leftIndent, hangIndent)
	}
}

// wrapParagraph wraps a single paragraph (no embedded newlines) to width.
func wrapParagraph(buf *strings.Builder, para string, width int, leftIndent, hangIndent string) {
	words := strings.Fields(para)
	if len(words) == 0 {
		return
	}

	leftW := visLen(leftIndent)
	hangW := visLen(hangIndent)
	firstLine := true
	lineLen := 0

	for _, word := range words {
		wl := visLen(word)

		indent := hangIndent
		indentW := hangW
		if firstLine {
			indent = leftIndent
			indentW = leftW
		}
		avail := width - indentW

		if lineLen == 0 {
			buf.WriteString(indent)
			if wl <= avail {
				buf.WriteString(word)
				lineLen = wl
			} else {
				hardBreak(buf, word, avail, width, hangIndent, hangW)
				lineLen = 0
			}
			firstLine = false
		} else if lineLen+1+wl <= avail {
			buf.WriteByte(' ')
			buf.WriteString(word)
			lineLen += 1 + wl
		} else {
			buf.WriteString("\r\n")
			buf.WriteString(hangIndent)
			if wl <= width-hangW {
				buf.WriteString(word)
				lineLen = wl
			} else {
				hardBreak(buf, word, width-hangW, width, hangIndent, hangW)
				lineLen = 0
			}
		}
	}
}

// hardBreak writes a word that's longer than the available width, splitting
// it across multiple lines. It is ANSI-aware: escape sequences are never
// split and don't count toward width.
func hardBreak(buf *strings.Builder, word string, firstAvail, width int, indent string, indentW int) {
	avail := firstAvail
	col := 0
	inEsc := false
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if inEsc {
			buf.WriteByte(ch)
			if ch == 'm' {
				inEsc = false
			}
			continue
		}
		if ch == '\033' && i+1 < len(word) && word[i+1] == '[' {
			buf.WriteByte(ch)
			inEsc = true
			continue
		}
		if col >= avail {
			buf.WriteString("\r\n")
			buf.WriteString(indent)
			col = 0
			avail = width - indentW
		}
		buf.WriteByte(ch)
		col++
	}
}

// fnColumns formats a list into fixed-width columns.
// columns(<list>, <width>[, <delim>[, <line width>]])
func fnColumns(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	isep := eval.SpaceDelim
	if len(args) > 2 && args[2] != "" {
		isep = eval.Delim{Len: len(args[2]), Str: args[2]}
	}
	items := splitList(args[0], isep)
	colWidth := toInt(args[1])
	if colWidth < 1 {
		colWidth = 20
	}
	lineWidth := 78
	if len(args) > 3 {
		lineWidth = toInt(args[3])
		if lineWidth < 1 {
			lineWidth = 78
		}
	}

	colsPerRow := lineWidth / colWidth
	if colsPerRow < 1 {
		colsPerRow = 1
	}

	for i, item := range items {
		if i > 0 && i%colsPerRow == 0 {
			buf.WriteString("\r\n")
		}
		buf.WriteString(item)
		padding := colWidth - len(item)
		if padding > 0 && (i+1)%colsPerRow != 0 && i+1 < len(items) {
			buf.WriteString(strings.Repeat(" ", padding))
		}
	}
}

// fnTable is an alias for columns.
func fnTable(ctx *eval.EvalContext, args []string, buf *strings.Builder, caller, cause gamedb.DBRef) {
	fnColumns(ctx, args, buf, caller, cause)
}

// fnTables implements tables(list, field_widths[, lead_str[, trail_str[, list_sep[, field_sep[, pad]]]]])
// Formats a list into a table with variable column widths, left-justified.
func fnTables(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	processTables(args, buf, 0)
}

// fnRtables is right-justified tables.
func fnRtables(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	processTables(args, buf, 1)
}

// fnCtables is center-justified tables.
func fnCtables(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	processTables(args, buf, 2)
}

// processTables is the shared implementation for tables/rtables/ctables.
// just: 0=left, 1=right, 2=center
func processTables(args []string, buf *strings.Builder, just int) {
	if len(args) < 2 {
		return
	}

	widthStrs := strings.Fields(args[1])
	if len(widthStrs) == 0 {
		return
	}
	colWidths := make([]int, len(widthStrs))
	for i, ws := range widthStrs {
		w := toInt(ws)
		if w < 1 {
			w = 1
		}
		colWidths[i] = w
	}
	nCols := len(colWidths)

	leadStr := ""
	if len(args) > 2 {
		leadStr = args[2]
	}
	trailStr := ""
	if len(args) > 3 {
		trailStr = args[3]
	}
	listSep := eval.SpaceDelim
	if len(args) > 4 && args[4] != "" {
		listSep = eval.Delim{Len: len(args[4]), Str: args[4]}
	}
	fieldSep := " "
	if len(args) > 5 {
		fieldSep = args[5]
	}
	padChar := " "
	if len(args) > 6 && args[6] != "" {
		padChar = string(args[6][0])
	}

	words := splitList(args[0], listSep)
	if len(words) == 0 {
		return
	}

	col := 0
	for i, word := range words {
		if col == 0 && leadStr != "" {
			buf.WriteString(leadStr)
		}

		// Justify within the column, by visible width
		width := colWidths[col%nCols]
		padding := width - ansiStrLen(word)
		if padding < 0 {
			padding = 0
			word = ansiTruncate(word, width)
		}

		switch just {
		case 1: // right
			if padding > 0 {
				buf.WriteString(strings.Repeat(padChar, padding))
			}
			buf.WriteString(word)
		case 2: // center
			leftPad := padding / 2
			rightPad := padding - leftPad
			if leftPad > 0 {
				buf.WriteString(strings.Repeat(padChar, leftPad))
			}
			buf.WriteString(word)
			if rightPad > 0 && col+1 < nCols && i+1 < len(words) {
				buf.WriteString(strings.Repeat(padChar, rightPad))
			}
		default: // left
			buf.WriteString(word)
			if padding > 0 && col+1 < nCols && i+1 < len(words) {
				buf.WriteString(strings.Repeat(padChar, padding))
			}
		}

		col++
		if col >= nCols {
			if trailStr != "" {
				buf.WriteString(trailStr)
			}
			if i+1 < len(words) {
				buf.WriteString("\r\n")
			}
			col = 0
		} else if i+1 < len(words) {
			buf.WriteString(fieldSep)
		}
	}
	if col > 0 && trailStr != "" {
		buf.WriteString(trailStr)
	}
}

// ansiStrLen returns the visible length of a string, not counting ANSI escape sequences.
func ansiStrLen(s string) int {
	n := 0
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			i += 2
			for i < len(s) && !((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
				i++
			}
			if i < len(s) {
				i++ // skip the final letter
			}
			continue
		}
		n++
		i++
	}
	return n
}

// ansiTruncate truncates a string to maxVisible visible characters, preserving ANSI sequences.
func ansiTruncate(s string, maxVisible int) string {
	var result strings.Builder
	vis := 0
	i := 0
	for i < len(s) && vis < maxVisible {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			start := i
			i += 2
			for i < len(s) && !((s[i] >= 'A' && s[i] <= 'Z') || (s[i] >= 'a' && s[i] <= 'z')) {
				i++
			}
			if i < len(s) {
				i++
			}
			result.WriteString(s[start:i])
			continue
		}
		result.WriteByte(s[i])
		vis++
		i++
	}
	return result.String()
}

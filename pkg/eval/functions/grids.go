package functions

import (
	"fmt"
	"strings"
	"sync"

	"github.com/crystal-mush/mushcode/pkg/eval"
	"github.com/crystal-mush/mushcode/pkg/gamedb"
)

// Grids. Each object may carry one row-major grid of strings,
// addressed by 1-based (row, column) coordinates. An empty coordinate
// range means "all".

type objGrid struct {
	rows, cols int
	data       [][]string
}

var objGrids = struct {
	sync.RWMutex
	m map[gamedb.DBRef]*objGrid
}{m: make(map[gamedb.DBRef]*objGrid)}

func gridGet(obj gamedb.DBRef) *objGrid {
	objGrids.RLock()
	defer objGrids.RUnlock()
	return objGrids.m[obj]
}

func gridFree(obj gamedb.DBRef) {
	objGrids.Lock()
	defer objGrids.Unlock()
	delete(objGrids.m, obj)
}

func gridPut(obj gamedb.DBRef, g *objGrid) {
	objGrids.Lock()
	defer objGrids.Unlock()
	objGrids.m[obj] = g
}

// gridSet assigns one cell, counting out-of-range coordinates.
func (g *objGrid) set(r, c int, val string, errs *int) {
	if r < 0 || c < 0 || r >= g.rows || c >= g.cols {
		*errs++
		return
	}
	g.data[r][c] = val
}

// rangeList parses a coordinate range argument. nil means "all".
func rangeList(arg string, isep eval.Delim) []string {
	if arg == "" {
		return nil
	}
	elems := splitList(arg, isep)
	if len(elems) == 0 || (len(elems) == 1 && elems[0] == "") {
		return nil
	}
	return elems
}

// fnGridmake creates (or replaces) the executor's grid.
// gridmake(<rows>, <cols>[, <grid text>[, <col sep>[, <row sep>]]])
func fnGridmake(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 2 {
		return
	}
	var csep, rsep eval.Delim
	if !delimIn(ctx, buf, args, 4, &csep) {
		return
	}
	if !delimIn(ctx, buf, args, 5, &rsep) {
		return
	}
	rows := toInt(args[0])
	cols := toInt(args[1])
	dimension := rows * cols
	if dimension > ctx.MaxGridSize || dimension < 0 || rows < 0 || cols < 0 {
		eval.SafeStr("#-1 INVALID GRID SIZE", buf)
		return
	}

	gridFree(ctx.Player)
	if dimension == 0 {
		return
	}

	g := &objGrid{rows: rows, cols: cols, data: make([][]string, rows)}
	for r := range g.data {
		g.data[r] = make([]string, cols)
	}
	gridPut(ctx.Player, g)

	if len(args) < 3 || args[2] == "" {
		return
	}
	rowText := splitList(args[2], rsep)
	if len(rowText) > rows {
		eval.SafeStr("#-1 TOO MANY DATA ROWS", buf)
		gridFree(ctx.Player)
		return
	}
	for r, row := range rowText {
		elems := splitList(row, csep)
		if len(elems) > cols {
			eval.SafeStr(fmt.Sprintf("#-1 ROW %d HAS TOO MANY ELEMS", r), buf)
			gridFree(ctx.Player)
			return
		}
		copy(g.data[r], elems)
	}
}

// fnGridsize reports "rows cols", or "0 0" with no grid.
func fnGridsize(ctx *eval.EvalContext, _ []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	g := gridGet(ctx.Player)
	if g == nil {
		eval.SafeStr("0 0", buf)
		return
	}
	eval.SafeStr(fmt.Sprintf("%d %d", g.rows, g.cols), buf)
}

// fnGridset writes a value into a coordinate range.
// gridset(<row range>, <col range>, <value>[, <range sep>])
func fnGridset(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	if len(args) < 3 {
		return
	}
	var isep eval.Delim
	if !delimIn(ctx, buf, args, 4, &isep) {
		return
	}
	g := gridGet(ctx.Player)
	if g == nil {
		eval.SafeStr("#-1 NO GRID", buf)
		return
	}
	val := args[2]
	errs := 0

	// Single position with no ranges to parse.
	if isep.Len == 1 &&
		args[0] != "" && !strings.Contains(args[0], isep.Str[:1]) &&
		args[1] != "" && !strings.Contains(args[1], isep.Str[:1]) {
		g.set(toInt(args[0])-1, toInt(args[1])-1, val, &errs)
		if errs > 0 {
			eval.SafeStr(fmt.Sprintf("#-1 GOT %d OUT OF RANGE ERRORS", errs), buf)
		}
		return
	}

	yElems := rangeList(args[0], isep)
	xElems := rangeList(args[1], isep)

	if yElems == nil {
		for r := 0; r < g.rows; r++ {
			if xElems == nil {
				for c := 0; c < g.cols; c++ {
					g.data[r][c] = val
				}
			} else {
				for _, xe := range xElems {
					g.set(r, toInt(xe)-1, val, &errs)
				}
			}
		}
	} else {
		for _, ye := range yElems {
			r := toInt(ye) - 1
			if r < 0 || r >= g.rows {
				errs++
				continue
			}
			if xElems == nil {
				for c := 0; c < g.cols; c++ {
					g.set(r, c, val, &errs)
				}
			} else {
				for _, xe := range xElems {
					g.set(r, toInt(xe)-1, val, &errs)
				}
			}
		}
	}

	if errs > 0 {
		eval.SafeStr(fmt.Sprintf("#-1 GOT %d OUT OF RANGE ERRORS", errs), buf)
	}
}

// gridPrint appends one cell, preceded by a separator unless first.
// Out-of-range cells print nothing but still take their separator.
func (g *objGrid) print(r, c int, sep bool, csep eval.Delim, buf *strings.Builder) {
	if sep {
		eval.PrintSep(csep, buf)
	}
	if r < 0 || c < 0 || r >= g.rows || c >= g.cols {
		return
	}
	eval.SafeStr(g.data[r][c], buf)
}

// fnGrid reads a cell, a coordinate range, or the whole grid.
// grid([<row range>, <col range>[, <col sep>[, <row sep>]]])
func fnGrid(ctx *eval.EvalContext, args []string, buf *strings.Builder, _, _ gamedb.DBRef) {
	var csep, rsep eval.Delim
	if len(args) < 3 {
		csep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 3, &csep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	if len(args) < 4 {
		rsep = eval.SpaceDelim
	} else if !ctx.DelimCheck(buf, args, 4, &rsep, eval.DelimNull|eval.DelimCrlf|eval.DelimString) {
		return
	}
	g := gridGet(ctx.Player)
	if g == nil {
		eval.SafeStr("#-1 NO GRID", buf)
		return
	}

	arg0, arg1 := "", ""
	if len(args) > 0 {
		arg0 = args[0]
	}
	if len(args) > 1 {
		arg1 = args[1]
	}

	// Single position.
	if arg0 != "" && !strings.Contains(arg0, " ") &&
		arg1 != "" && !strings.Contains(arg1, " ") {
		g.print(toInt(arg0)-1, toInt(arg1)-1, false, csep, buf)
		return
	}

	yElems := rangeList(arg0, eval.SpaceDelim)
	xElems := rangeList(arg1, eval.SpaceDelim)

	printRow := func(r int) {
		if xElems == nil {
			for c := 0; c < g.cols; c++ {
				g.print(r, c, c != 0, csep, buf)
			}
		} else {
			for i, xe := range xElems {
				g.print(r, toInt(xe)-1, i != 0, csep, buf)
			}
		}
	}

	if yElems == nil {
		for r := 0; r < g.rows; r++ {
			if r != 0 {
				eval.PrintSep(rsep, buf)
			}
			printRow(r)
		}
	} else {
		for j, ye := range yElems {
			if j != 0 {
				eval.PrintSep(rsep, buf)
			}
			r := toInt(ye) - 1
			if r >= 0 && r < g.rows {
				printRow(r)
			}
		}
	}
}

// Command gridctl is a terminal front door onto a single in-process
// GridController: type a cell reference and a value or formula, see it
// recompute immediately. It drives the engine directly, with no
// network hop, the way the teacher's repl package drives its
// interpreter directly. Input is read a line at a time through the
// terminal's own cooked-mode line discipline (backspace, Ctrl+W, etc.
// are the kernel tty driver's job, not gridctl's) rather than a
// custom raw-mode editor — gridctl has no multi-line statements or
// interpreter-specific history to justify one.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gridsheet/a1"
	"gridsheet/cellvalue"
	"gridsheet/engine"
	"gridsheet/sheet"

	"github.com/shopspring/decimal"
)

const defaultSheetName = "Sheet1"

type noRuntime struct{}

func (noRuntime) Submit(engine.CodeRunRequest) {}

func main() {
	sheetName := flag.String("sheet", defaultSheetName, "name of the initial sheet")
	flag.Parse()

	controller := engine.NewGridController(noRuntime{})
	sh := controller.AddSheet(sheet.SheetID("sheet-1"), *sheetName)

	out := os.Stdout
	fmt.Fprintf(out, "gridctl: %s ready. Type A1=value, A1==formula, :undo, :redo, or :q.\n", sh.Name)
	runScannerLoop(os.Stdin, out, controller, sh.ID)
}

func runScannerLoop(in io.Reader, out io.Writer, controller *engine.GridController, sh sheet.SheetID) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "gridctl> ")
		if !scanner.Scan() {
			return
		}
		if !handleLine(out, controller, sh, scanner.Text()) {
			return
		}
	}
}

// handleLine executes one line of input and reports whether the loop
// should keep running.
func handleLine(out io.Writer, controller *engine.GridController, sh sheet.SheetID, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}

	switch line {
	case ":q", ":quit":
		return false
	case ":undo":
		result, err := controller.Undo()
		reportResult(out, controller, sh, result, err)
		return true
	case ":redo":
		result, err := controller.Redo()
		reportResult(out, controller, sh, result, err)
		return true
	}

	ref, value, err := splitCommand(line)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return true
	}

	selection, err := a1.ParseSelection(sh, ref)
	if err != nil {
		fmt.Fprintf(out, "error: bad cell reference %q: %v\n", ref, err)
		return true
	}
	pos := selection.LargestRectFinite().Min

	op := buildEditOperation(sh, pos, value)
	result, err := controller.ApplyUserOperations([]engine.Operation{op})
	reportResult(out, controller, sh, result, err)
	return true
}

// splitCommand splits "A1=value" into its reference and value halves.
func splitCommand(line string) (ref string, value string, err error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("expected REF=VALUE, got %q", line)
	}
	ref = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	if ref == "" {
		return "", "", fmt.Errorf("missing cell reference in %q", line)
	}
	return ref, value, nil
}

func buildEditOperation(sh sheet.SheetID, pos a1.Pos, raw string) engine.Operation {
	if strings.HasPrefix(raw, "=") {
		code := cellvalue.CodeCellValue{Language: cellvalue.LanguageFormula, Code: strings.TrimPrefix(raw, "=")}
		return engine.SetCodeCell(sh, pos, code)
	}
	return engine.SetCellValue(sh, pos, parseLiteral(raw))
}

func parseLiteral(raw string) cellvalue.CellValue {
	if raw == "" {
		return cellvalue.NewBlank()
	}
	if b, err := strconv.ParseBool(raw); err == nil {
		return cellvalue.NewLogical(b)
	}
	if d, err := decimal.NewFromString(raw); err == nil {
		return cellvalue.NewNumber(d)
	}
	return cellvalue.NewText(raw)
}

func reportResult(out io.Writer, controller *engine.GridController, sh sheet.SheetID, result *engine.TransactionResult, err error) {
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if result == nil {
		fmt.Fprintln(out, "(nothing to do)")
		return
	}
	if !result.Committed {
		fmt.Fprintf(out, "(waiting on %s cell at %s)\n", result.WaitingLanguage, result.WaitingPos)
		return
	}
	for _, rect := range result.Dirty {
		printRect(out, controller, sh, rect)
	}
}

func printRect(out io.Writer, controller *engine.GridController, sh sheet.SheetID, rect a1.Rect) {
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			pos := a1.Pos{X: x, Y: y}
			v, ok := controller.DisplayValue(sh, pos)
			if !ok || v.Kind == cellvalue.Blank {
				continue
			}
			fmt.Fprintf(out, "  %s: %s\n", pos, v.AsText())
		}
	}
}

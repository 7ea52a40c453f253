// rangeview is a demo CLI for the set-algebra engine: it loads one or
// more newline-delimited "key\tvalue" datasets into in-process
// reference backends and runs union, intersect, or except across
// them, either printing the result or browsing it interactively.
//
// Usage:
//
//	rangeview [flags] <union|intersect|except> <file...>
//
// Interactive mode:
//
//	j/↓    scroll down
//	k/↑    scroll up
//	g      jump to first
//	G      jump to last
//	q/Esc  quit
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/kvrange/rangeset"
	"github.com/kvrange/rangeset/backend/local"
	"github.com/kvrange/rangeset/query"
	"github.com/kvrange/rangeset/rangeread"
)

func main() {
	listFlag := pflag.BoolP("list", "l", false, "list mode (non-interactive)")
	reverseFlag := pflag.BoolP("reverse", "r", false, "read every range in descending key order")
	limitFlag := pflag.IntP("limit", "n", 0, "cap records read per source (0 = unbounded)")
	pflag.Parse()

	if pflag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: rangeview [-l] [-r] [-n limit] <union|intersect|except> <file...>")
		os.Exit(1)
	}

	op := pflag.Arg(0)
	files := pflag.Args()[1:]

	items, err := run(op, files, *reverseFlag, *limitFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *listFlag {
		for _, it := range items {
			fmt.Printf("%s: %s\n", display(it.key, 40), display(it.val, 60))
		}
		return
	}

	runInteractive(items)
}

type item struct{ key, val []byte }

// run loads each file into its own local.Backend, opens one query.Source
// per file over the full keyspace, and combines them per op.
func run(op string, files []string, reverse bool, limit int) ([]item, error) {
	ctx := context.Background()
	sources := make([]query.Source, len(files))
	for i, path := range files {
		b, err := loadBackend(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		tr, _ := b.NewTransaction(ctx)
		sources[i] = query.Source{
			Tr:      tr,
			Backend: b,
			Range:   rangeread.RangeSelector{Begin: rangeread.FirstGreaterOrEqual(nil), End: rangeread.FirstGreaterOrEqual(rangeread.MaxKey)},
			Options: rangeread.RangeOptions{Limit: limit, Reverse: reverse, Mode: rangeread.ModeIterator},
		}
	}

	keyFn := func(r rangeset.Record) string { return string(r.Key) }
	resultFn := func(r rangeset.Record) item { return item{key: r.Key, val: r.Value} }
	cmp := func(a, b string) int { return strings.Compare(a, b) }

	switch op {
	case "union":
		c, err := query.Union(sources, keyFn, resultFn, cmp)
		if err != nil {
			return nil, err
		}
		return query.Run(ctx, c)
	case "intersect":
		c, err := query.Intersect(sources, keyFn, resultFn, cmp)
		if err != nil {
			return nil, err
		}
		return query.Run(ctx, c)
	case "except":
		c, err := query.Except(sources, keyFn, resultFn, cmp)
		if err != nil {
			return nil, err
		}
		return query.Run(ctx, c)
	default:
		return nil, fmt.Errorf("unknown op %q (want union, intersect, or except)", op)
	}
}

// loadBackend reads a newline-delimited "key\tvalue" file into a fresh
// in-process backend, giving every file its own isolated keyspace.
func loadBackend(path string) (*local.Backend, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b := local.New()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 2)
		val := ""
		if len(parts) == 2 {
			val = parts[1]
		}
		b.Set([]byte(parts[0]), []byte(val))
	}
	return b, scanner.Err()
}

func runInteractive(items []item) {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)

	v := &viewer{items: items, sessionID: uuid.New()}
	v.updateSize()

	fmt.Print("\033[?25l\033[2J")
	defer fmt.Print("\033[?25h\033[2J\033[H")

	reader := bufio.NewReader(os.Stdin)
	for {
		v.updateSize()
		v.render()

		b, err := reader.ReadByte()
		if err != nil {
			break
		}
		switch b {
		case 'q', 3:
			return
		case 27:
			// Arrow keys arrive as ESC [ A / ESC [ B; a lone ESC quits.
			if reader.Buffered() >= 2 {
				if seq, _ := reader.Peek(2); seq[0] == '[' {
					dir := seq[1]
					reader.Discard(2)
					if dir == 'A' {
						v.up()
					} else if dir == 'B' {
						v.down()
					}
					continue
				}
			}
			return
		case 'j':
			v.down()
		case 'k':
			v.up()
		case 'g':
			v.top = 0
		case 'G':
			v.top = max(0, len(v.items)-v.lines())
		}
	}
}

// viewer materializes the already-computed result set for scrolling:
// the engine's own cursors are forward-only pull streams (§3), so a
// terminal viewer that supports scrolling back up buffers the result
// once via query.Run rather than re-reading the backend.
type viewer struct {
	items     []item
	sessionID uuid.UUID
	width     int
	height    int
	top       int
}

func (v *viewer) updateSize() {
	w, h, err := term.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		w, h = 80, 24
	}
	v.width, v.height = w, h
}

func (v *viewer) lines() int { return max(1, v.height-4) }

func (v *viewer) down() {
	if v.top+v.lines() < len(v.items) {
		v.top++
	}
}

func (v *viewer) up() {
	if v.top > 0 {
		v.top--
	}
}

func (v *viewer) render() {
	var b strings.Builder
	b.WriteString("\033[H")
	b.WriteString(fmt.Sprintf("[ rangeview %s ]\033[K\r\n", v.sessionID.String()[:8]))
	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")

	keyWidth := 32
	valWidth := max(20, v.width-keyWidth-4)

	lines := v.lines()
	for i := 0; i < lines; i++ {
		idx := v.top + i
		if idx < len(v.items) {
			it := v.items[idx]
			b.WriteString(display(it.key, keyWidth))
			b.WriteString(": ")
			b.WriteString(display(it.val, valWidth))
		} else {
			b.WriteString("~")
		}
		b.WriteString("\033[K\r\n")
	}

	b.WriteString(strings.Repeat("─", v.width))
	b.WriteString("\033[K\r\n")
	b.WriteString(fmt.Sprintf(" %d/%d records  j/k:scroll g/G:jump q:quit \033[K", v.top+1, len(v.items)))

	fmt.Print(b.String())
}

func display(b []byte, maxLen int) string {
	if len(b) == 0 {
		return "(empty)"
	}
	if utf8.Valid(b) && isPrintable(b) {
		runes := []rune(string(b))
		if len(runes) > maxLen-3 {
			return string(runes[:maxLen-3]) + "..."
		}
		return string(runes)
	}
	hex := fmt.Sprintf("%x", b)
	if len(hex) > maxLen-3 {
		return hex[:maxLen-3] + "..."
	}
	return hex
}

func isPrintable(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

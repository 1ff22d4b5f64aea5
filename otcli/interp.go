package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/otwire/internal/fontload"
	"github.com/npillmayer/otwire/ot"
	"github.com/npillmayer/otwire/otcodec"
	"github.com/pterm/pterm"
)

// Intp is our interpreter object
type Intp struct {
	font  *fontload.ScalableFont
	repl  *readline.Instance
	tag   ot.Tag
	table otcodec.Table // decoded table, if any
}

func (intp *Intp) String() string {
	if intp == nil || intp.font == nil {
		return "()"
	}
	name := intp.font.Fontname
	if name == "" {
		name = intp.font.Filepath
	}
	if intp.table == nil {
		return fmt.Sprintf("( font=%s )", name)
	}
	return fmt.Sprintf("( font=%s table=%s )", name, intp.tag)
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		pterm.Println(intp.String())
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		op, err := parseCommand(line)
		if err != nil {
			pterm.Error.Println(err)
			continue
		}
		err, quit := intp.execute(op)
		if err != nil {
			pterm.Error.Println(userMessage(err))
			tracer().Errorf(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Op is a parsed command line.
type Op struct {
	code int
	arg  string
}

const (
	QUIT int = iota
	HELP
	LOAD
	TABLES
	DECODE
	TREE
	LAYOUT
	DOT
	LOOKUPS
	ROUNDTRIP
)

var opMap = map[string]int{
	"quit":      QUIT,
	"help":      HELP,
	"load":      LOAD,
	"tables":    TABLES,
	"decode":    DECODE,
	"tree":      TREE,
	"layout":    LAYOUT,
	"dot":       DOT,
	"lookups":   LOOKUPS,
	"roundtrip": ROUNDTRIP,
}

var errUnknownCommand = errors.New("unknown command, try 'help'")

// parseCommand splits a line into a command and its optional argument.
// Commands may be written as "decode GSUB" or "decode:GSUB".
func parseCommand(line string) (*Op, error) {
	cmd, arg, found := strings.Cut(line, ":")
	if !found {
		fields := strings.Fields(line)
		cmd, arg = fields[0], strings.Join(fields[1:], " ")
	}
	code, ok := opMap[strings.ToLower(strings.TrimSpace(cmd))]
	if !ok {
		return nil, errUnknownCommand
	}
	op := &Op{code: code, arg: strings.TrimSpace(arg)}
	tracer().Debugf("parsed command %q with argument %q", cmd, op.arg)
	return op, nil
}

var commandFn = map[int]func(*Intp, *Op) (error, bool){
	QUIT:      quitOp,
	HELP:      helpOp,
	LOAD:      loadOp,
	TABLES:    tablesOp,
	DECODE:    decodeOp,
	TREE:      treeOp,
	LAYOUT:    layoutOp,
	DOT:       dotOp,
	LOOKUPS:   lookupsOp,
	ROUNDTRIP: roundtripOp,
}

func (intp *Intp) execute(op *Op) (err error, stop bool) {
	f, ok := commandFn[op.code]
	if !ok {
		return errUnknownCommand, false
	}
	return f(intp, op)
}

func quitOp(intp *Intp, op *Op) (error, bool) {
	return nil, true
}

// userMessage prefers the end-user text of codec errors.
func userMessage(err error) string {
	var cerr *otcodec.CodecError
	if errors.As(err, &cerr) {
		return cerr.UserMessage()
	}
	return err.Error()
}

// --- Font Loading -----------------------------------------------------

var (
	errNoFont  = errors.New("no font loaded, use 'load <file>'")
	errNoTable = errors.New("no table decoded, use 'decode <tag>'")
)

func loadOp(intp *Intp, op *Op) (error, bool) {
	if op.arg == "" {
		return errors.New("usage: load <font file>"), false
	}
	return intp.loadFont(op.arg), false
}

func (intp *Intp) loadFont(fontfile string) error {
	f, err := fontload.LoadOpenTypeFont(fontfile)
	if err != nil {
		tracer().Errorf("cannot load font %s: %s", fontfile, err)
		return err
	}
	intp.font, intp.table, intp.tag = f, nil, 0
	tracer().Infof("loaded font %s with %d tables", fontfile, len(f.Tables))
	pterm.Printf("font tables: %v\n", f.Tags())
	return nil
}

func (intp *Intp) checkFont() error {
	if intp.font == nil {
		return errNoFont
	}
	return nil
}

func (intp *Intp) checkTable() error {
	if err := intp.checkFont(); err != nil {
		return err
	}
	if intp.table == nil {
		return errNoTable
	}
	return nil
}

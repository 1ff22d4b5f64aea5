/*
Command otcli explores and verifies the layout tables of OpenType fonts.

	otcli [--trace=Info] repl [--font=<file>]
	otcli verify <font>...

The repl sub-command starts an interactive session, reading commands with
readline. The verify sub-command decodes GSUB, GPOS and GDEF of every font
given, re-encodes them and checks that nothing got lost on the way.
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/pterm/pterm"
)

// tracer traces with key 'otwire.cli'
func tracer() tracing.Trace {
	return tracing.Select("otwire.cli")
}

var cli struct {
	Trace string `short:"t" enum:"Debug,Info,Error" default:"Info" help:"Trace level [Debug|Info|Error]"`

	Repl struct {
		Font string `short:"f" type:"path" help:"Font to load at startup"`
	} `cmd:"" help:"Explore the layout tables of a font interactively"`

	Verify struct {
		Jobs  int      `short:"j" default:"4" help:"Number of fonts to verify in parallel"`
		Fonts []string `arg:"" name:"fonts" type:"existingfile" help:"Font files to verify"`
	} `cmd:"" help:"Round-trip GSUB, GPOS and GDEF of fonts"`
}

// traceKeys are the tracers of the otwire packages.
var traceKeys = []string{"otwire.cli", "otwire.codec", "otwire.tables", "otwire.var", "otwire.fontload"}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("otcli"),
		kong.Description("Decode, inspect and re-encode OpenType layout tables."),
		kong.UsageOnError(),
	)
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
	}
	for _, key := range traceKeys {
		conf["trace."+key] = "Error"
	}
	conf["trace.otwire.cli"] = cli.Trace
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())
	tracer().Infof("Trace level is %s", cli.Trace)

	switch ctx.Command() {
	case "repl":
		os.Exit(repl(cli.Repl.Font))
	case "verify <fonts>":
		results, err := verifyFonts(context.Background(), cli.Verify.Fonts, cli.Verify.Jobs)
		printVerification(results)
		if err != nil {
			pterm.Error.Println(err)
			os.Exit(2)
		}
		if !allPassed(results) {
			os.Exit(1)
		}
	default:
		ctx.Fatalf("unknown command %q", ctx.Command())
	}
}

func repl(fontname string) int {
	pterm.Info.Println("Welcome to otwire CLI") // colored welcome message
	rl, err := readline.New("ot > ")
	if err != nil {
		tracer().Errorf(err.Error())
		return 3
	}
	defer rl.Close()
	intp := &Intp{repl: rl}
	if fontname != "" {
		if err := intp.loadFont(fontname); err != nil {
			tracer().Errorf(err.Error())
			return 4
		}
	}
	pterm.Info.Println("Quit with <ctrl>D or 'quit'") // inform user how to stop the CLI
	intp.REPL()
	return 0
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

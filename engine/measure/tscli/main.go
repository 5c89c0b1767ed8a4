// Command tscli is an interactive client for shaping and measuring text.
//
// Text is shaped with HarfBuzz in a font given by flag -font, which may be
// a path to a font file. Without a font flag, Go Regular is used.
// Type 'help' at the prompt for a list of commands.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/textshaping/core/dimen"
	"github.com/npillmayer/textshaping/core/font"
	"github.com/npillmayer/textshaping/core/font/fontregistry"
	"github.com/npillmayer/textshaping/engine/measure"
	"github.com/npillmayer/textshaping/engine/textshaper"
	"github.com/pterm/pterm"
	"golang.org/x/image/font/gofont/goregular"
)

// tracer traces with key 'measure'
func tracer() tracing.Trace {
	return tracing.Select("measure")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter": "go",
		"trace.measure":   "Info",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Error", "Trace level [Debug|Info|Error]")
	fontname := flag.String("font", "", "Font file to use")
	res := flag.Float64("res", 72, "Resolution in dpi")
	flag.Parse()
	setTraceLevel(*tlevel)
	pterm.Info.Println("Welcome to the text shaping CLI") // colored welcome message
	//
	// set up engine
	registry := fontregistry.GlobalRegistry()
	if err := registry.StoreFontData("goregular", goregular.TTF); err != nil {
		tracer().Errorf(err.Error())
		os.Exit(2)
	}
	engine := measure.NewSystemEngine(registry, conf)
	measure.SetDefault(engine)
	//
	// set up REPL
	repl, err := readline.New("ts > ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	intp := &Intp{
		repl:     repl,
		engine:   engine,
		spec:     font.Spec{File: "goregular"},
		size:     12,
		res:      *res,
		maxWidth: -1,
	}
	if *fontname != "" {
		if err := intp.setFont(*fontname); err != nil {
			tracer().Errorf(err.Error())
			os.Exit(4)
		}
	}
	//
	// start receiving commands
	pterm.Info.Println("Quit with <ctrl>D") // inform user how to stop the CLI
	intp.REPL()                             // go into interactive mode
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

// Intp is our interpreter object
type Intp struct {
	repl     *readline.Instance
	engine   *measure.Engine
	spec     font.Spec
	size     float64
	res      float64
	maxWidth float64
	align    textshaper.Alignment
	dir      textshaper.Direction
}

// REPL starts interactive mode.
func (intp *Intp) REPL() {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		cmd := parseCommand(line)
		quit, err := intp.execute(cmd)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		if quit {
			break
		}
	}
	pterm.Info.Println("Good bye!")
}

// Command is a single input line: an operation and its argument.
type Command struct {
	code int
	name string
	arg  string
}

const (
	QUIT int = iota
	HELP
	FONT
	SIZE
	WIDTH
	ALIGN
	DIRECTION
	MEASURE
	SHAPE
	FEATURES
	BREAKS
	STATS
)

var commands = map[string]int{
	"quit":     QUIT,
	"help":     HELP,
	"font":     FONT,
	"size":     SIZE,
	"width":    WIDTH,
	"align":    ALIGN,
	"dir":      DIRECTION,
	"measure":  MEASURE,
	"shape":    SHAPE,
	"features": FEATURES,
	"breaks":   BREAKS,
	"stats":    STATS,
}

func parseCommand(line string) Command {
	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	code, ok := commands[name]
	if !ok {
		code = HELP
	}
	tracer().Debugf("command = %s(%q)", name, arg)
	return Command{code: code, name: name, arg: arg}
}

func (intp *Intp) execute(cmd Command) (bool, error) {
	switch cmd.code {
	case QUIT:
		return true, nil
	case HELP:
		help(cmd.arg)
	case FONT:
		if cmd.arg == "" {
			pterm.Printfln("font is %s at %.1fpt, %.0f dpi", intp.spec, intp.size, intp.res)
			return false, nil
		}
		return false, intp.setFont(cmd.arg)
	case SIZE:
		return false, setNumber(&intp.size, cmd.arg)
	case WIDTH:
		return false, intp.setWidth(cmd.arg)
	case ALIGN:
		var a float64
		if err := setNumber(&a, cmd.arg); err != nil {
			return false, err
		}
		intp.align = textshaper.Alignment(a)
	case DIRECTION:
		switch strings.ToLower(cmd.arg) {
		case "ltr":
			intp.dir = textshaper.LeftToRight
		case "rtl":
			intp.dir = textshaper.RightToLeft
		default:
			intp.dir = textshaper.Auto
		}
		pterm.Printfln("direction is %s", intp.dir)
	case MEASURE:
		w, err := intp.engine.LineWidth(cmd.arg, intp.spec, intp.size, intp.res, true)
		if err != nil {
			return false, err
		}
		ink, err := intp.engine.LineWidth(cmd.arg, intp.spec, intp.size, intp.res, false)
		if err != nil {
			return false, err
		}
		pterm.Printfln("width = %.2fpx, without bearings = %.2fpx", w, ink)
	case SHAPE:
		return false, intp.shape(cmd.arg)
	case FEATURES:
		tags, err := intp.engine.FeatureTags(intp.spec.File, intp.spec.Index)
		if err != nil {
			return false, err
		}
		pterm.Printfln("features of %s: %v", intp.spec.File, tags)
	case BREAKS:
		soft, hard := measure.BreakOffsets(unescape(cmd.arg))
		pterm.Printfln("soft breaks after %v, hard breaks after %v", soft, hard)
	case STATS:
		s := intp.engine.CacheStats()
		pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
			{"Cache", "Entries", "Hits", "Misses"},
			{"bidi", itoa(s.BidiEntries), itoa(s.BidiHits), itoa(s.BidiMisses)},
			{"shaped runs", itoa(s.ShapeEntries), itoa(s.ShapeHits), itoa(s.ShapeMisses)},
		}).Render()
		pterm.Printfln("evictions: %d", s.Evictions)
	}
	return false, nil
}

func (intp *Intp) setFont(fontname string) error {
	spec := font.Spec{File: fontname}
	if _, err := intp.engine.Registry().Font(fontname); err != nil {
		return err
	}
	intp.spec = spec
	tracer().Infof("using font %s", spec)
	return nil
}

func (intp *Intp) shape(text string) error {
	in := &measure.Input{
		Strings:     []string{unescape(text)},
		Fonts:       []font.Spec{intp.spec},
		Sizes:       []float64{intp.size},
		Resolutions: []float64{intp.res},
		MaxWidths:   []float64{intp.maxWidth},
		Aligns:      []textshaper.Alignment{intp.align},
		Directions:  []textshaper.Direction{intp.dir},
	}
	glyphs, metrics, err := intp.engine.Paragraph(in)
	if err != nil {
		return err
	}
	data := pterm.TableData{{"Cluster", "Glyph", "X", "Y", "Advance", "Font"}}
	for _, g := range glyphs {
		data = append(data, []string{
			itoa(g.Cluster), strconv.FormatUint(uint64(g.GlyphID), 10),
			ftoa(g.X), ftoa(g.Y), ftoa(g.Advance), g.File,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	m := metrics[0]
	pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"Width", "Height", "Bearings (l,r,t,b)", "Border (l,t)", "Pen"},
		{ftoa(m.Width), ftoa(m.Height),
			fmt.Sprintf("%.2f, %.2f, %.2f, %.2f", m.LeftBearing, m.RightBearing, m.TopBearing, m.BottomBearing),
			fmt.Sprintf("%.2f, %.2f", m.LeftBorder, m.TopBorder),
			fmt.Sprintf("%.2f, %.2f", m.PenX, m.PenY)},
	}).Render()
	return nil
}

func help(topic string) {
	switch strings.ToLower(topic) {
	case "shape":
		pterm.Info.Println("shape <text>")
		pterm.Println(`
	Lays out text as a paragraph with the current settings and prints
	the placed glyphs and the metrics of the paragraph's box.
	Escapes like \n or \u00AD are resolved.
	Settings are changed with 'font', 'size', 'width' (in pixels or with a unit,
	negative for unconstrained lines), 'align' (0…8) and 'dir' (ltr|rtl|auto).
	`)
	default:
		pterm.Info.Println("Commands")
		pterm.Println(`
	font [file]     set or show the font
	size <pt>       set the font size
	width <length>  set the maximum line width
	align <n>       set the alignment
	dir <d>         set the paragraph direction
	measure <text>  print the width of a single line of text
	shape <text>    lay out a paragraph
	breaks <text>   print UAX#14 break offsets
	features        list the OpenType features of the font
	stats           print cache statistics
	quit
	`)
	}
}

func setTraceLevel(l string) {
	switch strings.ToLower(l) {
	case "debug":
		tracer().SetTraceLevel(tracing.LevelDebug)
	case "info":
		tracer().SetTraceLevel(tracing.LevelInfo)
	default:
		tracer().SetTraceLevel(tracing.LevelError)
	}
}

// setWidth sets the maximum line width. Lengths with units are converted
// to pixels at 72 dpi, plain numbers are taken as pixels.
func (intp *Intp) setWidth(arg string) error {
	d, pcnt, err := dimen.ParseDimen(strings.TrimSpace(arg))
	if err != nil {
		return fmt.Errorf("not a length: %q", arg)
	}
	if pcnt {
		return fmt.Errorf("line width cannot be a percentage")
	}
	intp.maxWidth = d.Pixels()
	pterm.Printfln("maximum line width is %.2fpx", intp.maxWidth)
	return nil
}

func setNumber(n *float64, arg string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil {
		return fmt.Errorf("not a number: %q", arg)
	}
	*n = f
	return nil
}

func unescape(s string) string {
	if u, err := strconv.Unquote(`"` + strings.ReplaceAll(s, `"`, `\"`) + `"`); err == nil {
		return u
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/pleimann/keynote/internal/config"
	"github.com/pleimann/keynote/internal/logging"
	"github.com/pleimann/keynote/internal/notation"
	"github.com/pleimann/keynote/internal/recording"
	"github.com/pleimann/keynote/internal/ui"
	"github.com/pleimann/keynote/internal/utils"
)

const Version = "0.1.0"

func main() {
	// Check for subcommands first
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "parse":
			runParse(os.Args[2:])
			return
		case "reverse":
			runReverse(os.Args[2:])
			return
		case "run":
			runNotation(os.Args[2:])
			return
		case "play":
			runPlay(os.Args[2:])
			return
		case "replay":
			runReplay(os.Args[2:])
			return
		case "shell":
			runShell(os.Args[2:])
			return
		case "macros":
			runMacros(os.Args[2:])
			return
		case "macro-add":
			runMacroAdd(os.Args[2:])
			return
		case "keymap":
			runKeymap(os.Args[2:])
			return
		case "init":
			runInit(os.Args[2:])
			return
		case "help", "-h", "--help":
			runHelp(os.Args[2:])
			os.Exit(0)
		}
	}

	// Main command flags
	configPath := flag.String("config", config.DefaultPath, "path to configuration file")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	version := flag.Bool("version", false, "print version and exit")

	flag.Usage = printUsage
	flag.Parse()

	if *version {
		ui.PrintVersion(Version)
		os.Exit(0)
	}

	cf := commonFlags{config: configPath, verbose: verbose}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		runStdin(cf)
		return
	}
	shell(cf)
}

// runStdin plays each line read from a pipe as notation.
func runStdin(cf commonFlags) {
	_, logger, app := setup(cf)

	ctx, cancel := signalContext()
	defer cancel()

	if err := app.Open(ctx, os.Stdout); err != nil {
		ui.PrintFatalError("Failed to open backend", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	scanner := bufio.NewScanner(os.Stdin)
	lines := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		lines++
		if _, err := app.executor.ExecuteNotation(ctx, line); err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error("failed to play line", "line", lines, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Error("failed to read stdin", "error", err)
	}
	app.Settle(ctx)
	logger.Debug("stdin done", "lines", lines)
}

func printUsage() {
	ui.PrintUsage(Version)
}

func runHelp(args []string) {
	if len(args) > 0 {
		if c, ok := ui.LookupCommand(args[0]); ok {
			ui.PrintCommandUsage(c)
			return
		}
	}
	printUsage()
}

// commonFlags are the options most subcommands share. Unused ones stay nil.
type commonFlags struct {
	config  *string
	keymap  *string
	backend *string
	verbose *bool
}

// newFlagSet creates the flag set for a subcommand with its help screen and
// the shared -config/-verbose flags. withKeymap and withBackend add the
// overrides.
func newFlagSet(name string, withKeymap, withBackend bool) (*flag.FlagSet, commonFlags) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		if c, ok := ui.LookupCommand(name); ok {
			ui.PrintCommandUsage(c)
		}
	}

	cf := commonFlags{
		config:  fs.String("config", config.DefaultPath, "path to configuration file"),
		verbose: fs.Bool("verbose", false, "enable verbose logging"),
	}
	if withKeymap {
		cf.keymap = fs.String("keymap", "", "built-in keymap name or INI file")
	}
	if withBackend {
		cf.backend = fs.String("backend", "", "keyboard, terminal or dry")
	}
	return fs, cf
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// loadConfig reads the config file. A missing default config is not an
// error; the built-in defaults are used instead.
func loadConfig(path string) (*config.Config, error) {
	if path == config.DefaultPath && !config.Exists(path) {
		return config.Default(), nil
	}
	return config.Load(path)
}

// setup loads config, builds the logger and the app. It exits on failure.
func setup(cf commonFlags) (*config.Config, *slog.Logger, *App) {
	return setupLogger(cf, os.Stderr)
}

func setupLogger(cf commonFlags, logOut io.Writer) (*config.Config, *slog.Logger, *App) {
	cfg, err := loadConfig(str(cf.config))
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}

	if cf.verbose != nil && *cf.verbose {
		cfg.Logging.Level = "debug"
	}
	logger := logging.New(cfg.Logging, logOut)
	slog.SetDefault(logger)

	app, err := newApp(cfg, logger, appOptions{
		keymapRef: str(cf.keymap),
		backend:   str(cf.backend),
	})
	if err != nil {
		ui.PrintFatalError("Failed to initialize application", err.Error())
		os.Exit(1)
	}

	return cfg, logger, app
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			slog.Debug("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func requireArgs(fs *flag.FlagSet, n int) []string {
	if fs.NArg() < n {
		fs.Usage()
		os.Exit(2)
	}
	return fs.Args()
}

// runParse handles the parse subcommand
func runParse(args []string) {
	fs, cf := newFlagSet("parse", true, false)
	literal := fs.Bool("literal", false, "treat the text as plain characters")
	out := fs.String("o", "", "write the events to a recording file")
	fs.Parse(args)

	source := strings.Join(requireArgs(fs, 1), " ")
	_, _, app := setup(cf)

	var events []notation.Event
	if *literal {
		events = app.compiler.ParseChars(source)
	} else {
		events = app.compiler.Parse(source)
	}

	ui.PrintEvents(source, events)

	if *out != "" {
		rec := recording.Recording{Notation: source, SavedAt: time.Now(), Events: events}
		if err := recording.Save(*out, rec); err != nil {
			ui.PrintFatalError("Failed to save recording", err.Error())
			os.Exit(1)
		}
		ui.PrintSaved("Recording", *out)
	}
}

// runReverse handles the reverse subcommand
func runReverse(args []string) {
	fs, cf := newFlagSet("reverse", true, false)
	fs.Parse(args)

	path := requireArgs(fs, 1)[0]
	_, _, app := setup(cf)

	var (
		rec recording.Recording
		err error
	)
	if path == "-" {
		rec, err = recording.Decode(os.Stdin)
	} else {
		rec, err = recording.Load(path)
	}
	if err != nil {
		ui.PrintFatalError("Failed to read recording", err.Error())
		os.Exit(1)
	}

	keys := notation.KeyEvents(rec.Events)
	events := recording.Compact(keys, app.keymap.Tokens())
	ui.PrintNotation(app.compiler.Reverse(events), len(keys))
}

// play opens the backend, plays events and saves a recording if asked.
func play(app *App, source string, events []notation.Event, recordPath string) {
	ctx, cancel := signalContext()
	defer cancel()

	if err := app.Open(ctx, os.Stdout); err != nil {
		ui.PrintFatalError("Failed to open backend", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	err := app.executor.Play(ctx, source, events)
	app.Settle(ctx)

	if recordPath != "" {
		if serr := app.SaveRecording(recordPath, source); serr != nil {
			ui.PrintError("Failed to save recording: " + serr.Error())
		} else {
			ui.PrintSaved("Recording", recordPath)
		}
	}

	if err != nil && ctx.Err() == nil {
		app.Close()
		ui.PrintFatalError("Playback failed", err.Error())
		os.Exit(1)
	}
	if app.backendName == config.BackendDry {
		ui.PrintEvents(source, events)
	}
}

// runNotation handles the run subcommand
func runNotation(args []string) {
	fs, cf := newFlagSet("run", true, true)
	literal := fs.Bool("literal", false, "treat the text as plain characters")
	record := fs.String("record", "", "save the keys that were played")
	fs.Parse(args)

	source := strings.Join(requireArgs(fs, 1), " ")
	_, _, app := setup(cf)

	var events []notation.Event
	if *literal {
		events = app.compiler.ParseChars(source)
	} else {
		events = app.compiler.Parse(source)
	}

	play(app, source, events, *record)
}

// runPlay handles the play subcommand
func runPlay(args []string) {
	fs, cf := newFlagSet("play", true, true)
	record := fs.String("record", "", "save the keys that were played")
	fs.Parse(args)

	cfg, _, app := setup(cf)

	var macro config.Macro
	if fs.NArg() > 0 {
		m, ok := app.mapper.Get(fs.Arg(0))
		if !ok {
			ui.PrintFatalError("Unknown macro", fmt.Sprintf("%q is not in %s", fs.Arg(0), str(cf.config)))
			os.Exit(1)
		}
		macro = m
	} else {
		selected, err := ui.SelectMacro(cfg.Macros)
		if err != nil {
			ui.PrintFatalError("Macro selection failed", err.Error())
			os.Exit(1)
		}
		if selected == nil {
			fmt.Println(ui.Muted("No macro selected"))
			os.Exit(0)
		}
		macro = *selected
	}

	play(app, macro.Keys, app.compileMacro(macro), *record)
}

func (a *App) compileMacro(m config.Macro) []notation.Event {
	if m.Literal {
		return a.compiler.ParseChars(m.Keys)
	}
	return a.compiler.Parse(m.Keys)
}

// runReplay handles the replay subcommand
func runReplay(args []string) {
	fs, cf := newFlagSet("replay", false, true)
	fs.Parse(args)

	path := requireArgs(fs, 1)[0]
	_, _, app := setup(cf)

	rec, err := recording.Load(path)
	if err != nil {
		ui.PrintFatalError("Failed to read recording", err.Error())
		os.Exit(1)
	}

	play(app, rec.Notation, rec.Events, "")
}

// runShell handles the shell subcommand
func runShell(args []string) {
	fs, cf := newFlagSet("shell", true, true)
	fs.Parse(args)
	shell(cf)
}

func shell(cf commonFlags) {
	// the TUI owns the terminal; -verbose logs to a file instead
	logOut := io.Discard
	if cf.verbose != nil && *cf.verbose {
		f, err := os.OpenFile(utils.ExecutableName()+".log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			ui.PrintFatalError("Failed to open log file", err.Error())
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	_, logger, app := setupLogger(cf, logOut)

	ctx, cancel := signalContext()
	defer cancel()

	if err := app.Open(ctx, nil); err != nil {
		ui.PrintFatalError("Failed to open backend", err.Error())
		os.Exit(1)
	}
	defer app.Close()

	shellCfg := ui.ShellConfig{
		Executor: app.executor,
		Mapper:   app.mapper,
	}
	if app.ptyManager != nil {
		shellCfg.Play = true
		shellCfg.Output = app.ptyManager.RecentOutput
	}
	prog := ui.NewShell(ctx, shellCfg)

	path := str(cf.config)
	if config.Exists(path) {
		watcher, err := config.NewWatcher(path, logger)
		if err != nil {
			logger.Warn("config reload disabled", "error", err)
		} else {
			watcher.OnReload(func(c *config.Config) {
				app.mapper.Reload(c)
				prog.Send(ui.MacrosReloadedMsg{Count: len(c.Macros)})
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	if _, err := prog.Run(); err != nil && ctx.Err() == nil {
		app.Close()
		ui.PrintFatalError("Shell error", err.Error())
		os.Exit(1)
	}
}

// runMacros handles the macros subcommand
func runMacros(args []string) {
	fs, cf := newFlagSet("macros", false, false)
	fs.Parse(args)

	cfg, err := loadConfig(str(cf.config))
	if err != nil {
		ui.PrintFatalError("Failed to load config", err.Error())
		os.Exit(1)
	}
	ui.PrintMacroList(cfg.Macros)
}

// runMacroAdd handles the macro-add subcommand
func runMacroAdd(args []string) {
	fs, cf := newFlagSet("macro-add", false, false)
	literal := fs.Bool("literal", false, "store the macro as plain text")
	desc := fs.String("desc", "", "description shown in listings")
	fs.Parse(args)

	rest := requireArgs(fs, 2)
	m := config.Macro{
		Name:        rest[0],
		Keys:        strings.Join(rest[1:], " "),
		Literal:     *literal,
		Description: *desc,
	}

	path := str(cf.config)
	if !config.Exists(path) {
		if err := config.CreateDefaultConfig(path); err != nil {
			ui.PrintFatalError("Failed to create config", err.Error())
			os.Exit(1)
		}
		ui.PrintConfigCreated(path)
	}

	if err := config.AppendMacro(path, m); err != nil {
		ui.PrintFatalError("Failed to add macro", err.Error())
		os.Exit(1)
	}
	ui.PrintMacroAdded(path, m)
}

// runKeymap handles the keymap subcommand
func runKeymap(args []string) {
	fs, cf := newFlagSet("keymap", true, false)
	dump := fs.Bool("dump", false, "write the map as INI to stdout")
	fs.Parse(args)

	_, _, app := setup(cf)

	if *dump {
		if err := app.keymap.WriteINI(os.Stdout); err != nil {
			ui.PrintFatalError("Failed to write keymap", err.Error())
			os.Exit(1)
		}
		return
	}

	ref := app.keymapRef
	if ref == "" {
		ref = "default"
	}
	ui.PrintKeymap(ref, app.keymap)
}

// runInit handles the init subcommand
func runInit(args []string) {
	fs, cf := newFlagSet("init", false, false)
	fs.Parse(args)

	path := str(cf.config)
	if config.Exists(path) {
		ui.PrintFatalError("Config already exists", path)
		os.Exit(1)
	}
	if err := config.CreateDefaultConfig(path); err != nil {
		ui.PrintFatalError("Failed to create config", err.Error())
		os.Exit(1)
	}
	ui.PrintConfigCreated(path)
}

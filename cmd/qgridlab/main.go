package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flags "github.com/jessevdk/go-flags"
	rotate "github.com/lestrrat-go/file-rotatelogs"
	"github.com/massn/envordot"
	"github.com/oklog/run"
	"go.uber.org/dig"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"qgridlab/core"
	"qgridlab/sim"
)

var versionByBuildFlag string
var parser *flags.Parser
var app *App

func init() {
	if err := envordot.Load(false, ".env"); err != nil {
		fmt.Printf("Not found \".env\" file. Use only environment variables. Reason:%s\n", err.Error())
	} else {
		fmt.Println("Found \".env\" file. Environment variables are preferred, " +
			"but non-conflicting variables are those in the \".env\" file.")
	}
	app = &App{}
	setParser(app)
}

type App struct {
	Conf *core.Conf
}

func setParser(app *App) {
	parser = flags.NewParser(app, flags.Default)
	parser.ShortDescription = "qgridlab"
	parser.LongDescription = "terminal workbench for editing and simulating small quantum circuits."
	parser.AddCommand("edit", "open the editor", "open the circuit editor and simulate runs in place", newEditCmd())
}

func parse() {
	if _, err := parser.Parse(); err != nil {
		code := 1
		if fe, ok := err.(*flags.Error); ok {
			if fe.Type == flags.ErrHelp {
				code = 0
			}
		}
		if code == 1 {
			fmt.Printf("failed to parse flags, because %s\n", err)
		}
		os.Exit(code)
	}
}

func provideDIContainer(conf *core.Conf) (c *dig.Container, err error) {
	c = dig.New()
	err = c.Provide(func() *core.Conf { return conf })
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() core.Setting {
		setting, err := core.LoadSetting(conf.SettingPath, conf.MaxQubits)
		if err != nil {
			zap.L().Info("falling back to default settings")
		}
		return setting
	})
	if err != nil {
		return &dig.Container{}, err
	}
	err = c.Provide(func() *sim.Simulator { return sim.NewSimulator(conf.RandomSeed) })
	if err != nil {
		return &dig.Container{}, err
	}
	return
}

func zapLogger(conf *core.Conf) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	if conf.DevMode {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		c := zap.NewProductionEncoderConfig()
		c.EncodeTime = zapcore.ISO8601TimeEncoder //Not use UnixTime
		c.TimeKey = "timestamp"
		encoder = zapcore.NewJSONEncoder(c)
	}
	var level zap.AtomicLevel
	switch conf.LogLevel {
	case "debug":
		level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	cores := []zapcore.Core{}
	if conf.EnableFileLog {
		rotator, err := makeRotator(conf.LogDir, conf.LogRotationMaxDays)
		if err != nil {
			return &zap.Logger{}, err
		}
		syncer := zapcore.AddSync(rotator)
		rotateCore := zapcore.NewCore(
			encoder,
			syncer,
			level)
		cores = append(cores, rotateCore)
	}
	if !conf.DisableStdoutLog {
		debugCore := zapcore.NewCore(
			encoder,
			zapcore.Lock(os.Stdout),
			level)
		cores = append(cores, debugCore)
	}
	core := zapcore.NewTee(cores...)
	return zap.New(core, zap.AddCaller()), nil
}

func makeRotator(dirPath string, rotationMaxDays int) (*rotate.RotateLogs, error) {
	info, err := os.Stat(dirPath)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dirPath, 0755); err != nil {
			return &rotate.RotateLogs{}, fmt.Errorf("failed to create log directory %s", dirPath)
		}
	case err != nil:
		return &rotate.RotateLogs{}, fmt.Errorf("directory:%s is not usable", dirPath)
	case info.Mode().Perm()&(1<<uint(7)) == 0:
		return &rotate.RotateLogs{}, fmt.Errorf("%s is not a writable directory", dirPath)
	}
	rotator, err := rotate.New(
		filepath.Join(dirPath, "qgridlab-%Y-%m-%d.log"),
		rotate.WithMaxAge(time.Duration(rotationMaxDays)*24*time.Hour),
		rotate.WithRotationTime(time.Hour))
	if err != nil {
		return &rotate.RotateLogs{}, err
	}
	return rotator, nil
}

func setZap(conf *core.Conf) *zap.Logger {
	logger, err := zapLogger(conf)
	if err != nil {
		fmt.Printf("Failed to setup logger. Reason:%s\n", err)
		panic(err)
	}
	zap.ReplaceGlobals(logger)
	zap.L().Info("Starting logger")
	if versionByBuildFlag != "" {
		zap.L().Info(fmt.Sprintf("version is %s", versionByBuildFlag))
	}
	zap.L().Info(fmt.Sprintf("DevMode is %t", conf.DevMode))
	zap.L().Info(fmt.Sprintf("Log rotation max days is %d", conf.LogRotationMaxDays))
	return logger
}

func main() {
	parse()
}

type editCmd struct{}

func newEditCmd() *editCmd {
	return &editCmd{}
}

func (c *editCmd) Execute(args []string) error {
	// The TUI owns stdout while it runs; log lines there would corrupt
	// the alternate screen.
	app.Conf.DisableStdoutLog = true
	logger := setZap(app.Conf)
	defer logger.Sync()

	container, err := provideDIContainer(app.Conf)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to set up DI container. Reason:%s", err))
		return err
	}
	if err := container.Invoke(startEditor); err != nil {
		zap.L().Error(fmt.Sprintf("editor stopped. Reason:%s", err))
		return err
	}
	return nil
}

func startEditor(conf *core.Conf, setting core.Setting, simulator *sim.Simulator) error {
	var program *tea.Program
	notify := func(rec *sim.RunRecord, err error) {
		if program != nil {
			program.Send(runDoneMsg{record: rec, err: err})
		}
	}
	runner := sim.NewRunner(simulator, conf.QueueMaxSize, notify)
	program = tea.NewProgram(initialModel(conf, setting, runner), tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	var g run.Group
	g.Add(run.SignalHandler(ctx, os.Interrupt))
	g.Add(
		func() error {
			return runner.Loop(ctx)
		},
		func(error) {
			cancel()
		},
	)
	g.Add(
		func() error {
			_, err := program.Run()
			return err
		},
		func(error) {
			program.Quit()
		},
	)

	if err := g.Run(); err != nil {
		if _, ok := err.(run.SignalError); ok {
			zap.L().Info(fmt.Sprintf("stopped by signal. Reason:%s", err))
			return nil
		}
		return err
	}
	return nil
}

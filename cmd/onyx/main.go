package main

import (
	"io"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"
)

type Options struct {
	Config  string `long:"config" short:"c" default:"onyx.json" description:"Robot configuration file"`
	Verbose bool   `long:"verbose" short:"v" description:"Log every cycle and skipped servo"`
	// Calibration replaces the calibration stored in the config file.
	Calibration string `long:"calibration" description:"Calibration file overriding the one in the config"`

	Setup SetupCommand `command:"setup" description:"Find the servo bus and write the robot configuration"`
	Stand StandCommand `command:"stand" description:"Move every servo to its standing angle"`
	Walk  WalkCommand  `command:"walk" description:"Walk with the diagonal gait"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "ONYX - diagonal gait controller for the ONYX quadruped"

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}

// newLogger returns a console logger writing to w.
func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
	}).Level(level).With().Timestamp().Logger()
}

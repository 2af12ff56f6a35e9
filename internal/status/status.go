// Package status assembles a one-pass report about a separately running
// scrape: pid liveness, recent log output, and result CSV sizes. Every
// check is independent and a missing artifact is a normal condition, not
// an error.
package status

import (
	"errors"
	"os"
	"path/filepath"

	"summit-abstract-miner/config"
	"summit-abstract-miner/internal/csvstats"
	"summit-abstract-miner/internal/logtail"
	"summit-abstract-miner/internal/pidfile"
)

type PIDState string

const (
	PIDRunning PIDState = "running"
	PIDStale   PIDState = "stale"
	PIDInvalid PIDState = "invalid"
	PIDMissing PIDState = "missing"
)

type PIDStatus struct {
	File  string   `json:"file"`
	State PIDState `json:"state"`
	PID   int      `json:"pid,omitempty"`
}

type LogStatus struct {
	File    string   `json:"file"`
	Present bool     `json:"present"`
	Lines   []string `json:"lines,omitempty"`
}

type CSVStatus struct {
	File    string `json:"file"`
	Present bool   `json:"present"`
	Lines   int    `json:"lines"`
}

type Report struct {
	PID  PIDStatus   `json:"pid"`
	Log  LogStatus   `json:"log"`
	CSVs []CSVStatus `json:"csvs"`
	Hint string      `json:"hint"`
}

type Options struct {
	Dir       string
	PIDFile   string
	LogFile   string
	CSVFiles  []string
	TailLines int

	// Alive overrides the process-table query; nil uses pidfile.Alive.
	Alive func(pid int) (bool, error)
}

// DefaultHint is the static closing line of every report.
const DefaultHint = "Hint: run 'scraper run' to start a scrape pass; 'tail -f scraper.log' to follow one."

// OptionsFromConfig builds Options for the artifacts one scrape pass produces.
func OptionsFromConfig(cfg config.ScraperConfig) Options {
	return Options{
		Dir:       cfg.Dir,
		PIDFile:   cfg.PIDFile,
		LogFile:   cfg.LogFile,
		CSVFiles:  []string{cfg.AllEventsCSV, cfg.HitsCSV},
		TailLines: cfg.TailLines,
	}
}

// Collect runs all checks and never fails: unreadable or absent artifacts
// degrade to their "missing" representation.
func Collect(opts Options) Report {
	if opts.TailLines <= 0 {
		opts.TailLines = 20
	}
	alive := opts.Alive
	if alive == nil {
		alive = pidfile.Alive
	}

	r := Report{Hint: DefaultHint}
	r.PID = checkPID(filepath.Join(opts.Dir, opts.PIDFile), opts.PIDFile, alive)
	r.Log = checkLog(filepath.Join(opts.Dir, opts.LogFile), opts.LogFile, opts.TailLines)
	for _, name := range opts.CSVFiles {
		r.CSVs = append(r.CSVs, checkCSV(filepath.Join(opts.Dir, name), name))
	}
	return r
}

func checkPID(path, name string, alive func(int) (bool, error)) PIDStatus {
	pid, err := pidfile.Read(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return PIDStatus{File: name, State: PIDMissing}
	case err != nil:
		return PIDStatus{File: name, State: PIDInvalid}
	}

	ok, err := alive(pid)
	if err != nil || !ok {
		return PIDStatus{File: name, State: PIDStale, PID: pid}
	}
	return PIDStatus{File: name, State: PIDRunning, PID: pid}
}

func checkLog(path, name string, n int) LogStatus {
	lines, err := logtail.Tail(path, n)
	if err != nil {
		return LogStatus{File: name, Present: false}
	}
	return LogStatus{File: name, Present: true, Lines: lines}
}

func checkCSV(path, name string) CSVStatus {
	lines, err := csvstats.LineCount(path)
	if err != nil {
		return CSVStatus{File: name, Present: false}
	}
	return CSVStatus{File: name, Present: true, Lines: lines}
}

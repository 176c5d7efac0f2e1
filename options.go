package sexpobj

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/tliron/commonlog"
)

// Options configures arenas and logging. It is usually read from a
// TOML file:
//
//	[table]
//	initial-capacity = 1024
//
//	[log]
//	verbosity = 1
//	path = "sexpobj.log"
type Options struct {
	Table TableOptions `toml:"table"`
	Log   LogOptions   `toml:"log"`
}

type TableOptions struct {
	// InitialCapacity pre-sizes an arena's backing table. Values below
	// InitTableSize have no effect.
	InitialCapacity int `toml:"initial-capacity"`
}

type LogOptions struct {
	Verbosity int    `toml:"verbosity"`
	Path      string `toml:"path"`
}

func DefaultOptions() Options {
	return Options{
		Table: TableOptions{InitialCapacity: InitTableSize},
	}
}

// ParseOptions decodes TOML on top of DefaultOptions.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()
	if err := toml.Unmarshal(data, &opts); err != nil {
		return Options{}, fmt.Errorf("sexpobj: parse options: %w", err)
	}
	if opts.Table.InitialCapacity < 0 {
		return Options{}, fmt.Errorf("sexpobj: parse options: negative initial-capacity %d", opts.Table.InitialCapacity)
	}
	return opts, nil
}

func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return ParseOptions(data)
}

// ConfigureLogging applies the log section to commonlog. A backend such as
// github.com/tliron/commonlog/simple must be imported by the program.
func ConfigureLogging(opts Options) {
	var path *string
	if opts.Log.Path != "" {
		path = &opts.Log.Path
	}
	commonlog.Configure(opts.Log.Verbosity, path)
}

// Package target describes how assembly text differs between platforms.
package target

import (
	"os"
	"runtime"
	"sort"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

type (
	Target struct {
		Name string `yaml:"name"`

		// SymbolPrefix is prepended to global function symbols.
		SymbolPrefix string `yaml:"symbol_prefix"`

		// LocalPrefix is prepended to function-local labels.
		LocalPrefix string `yaml:"local_prefix"`

		// Footer lines are printed after the function.
		Footer []string `yaml:"footer"`
	}
)

var builtin = map[string]Target{
	"linux": {
		Name:        "linux",
		LocalPrefix: ".L",
		Footer:      []string{`.section .note.GNU-stack,"",@progbits`},
	},
	"darwin": {
		Name:         "darwin",
		SymbolPrefix: "_",
		LocalPrefix:  "L",
	},
}

// Default is the target of the host, linux if the host is unknown.
func Default() Target {
	if t, ok := builtin[runtime.GOOS]; ok {
		return t
	}

	return builtin["linux"]
}

// Lookup returns the builtin target by name.
// Empty name means Default.
func Lookup(name string) (Target, error) {
	if name == "" {
		return Default(), nil
	}

	t, ok := builtin[name]
	if !ok {
		return Target{}, errors.New("unknown target: %q (known: %v)", name, Names())
	}

	return t, nil
}

func Names() []string {
	l := make([]string, 0, len(builtin))

	for n := range builtin {
		l = append(l, n)
	}

	sort.Strings(l)

	return l
}

// Load reads target overrides from a yaml file.
// Fields missing in the file are taken from the base target
// named by the file or from Default.
func Load(name string) (Target, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return Target{}, errors.Wrap(err, "read target")
	}

	return Decode(data)
}

func Decode(data []byte) (t Target, err error) {
	var head struct {
		Name string `yaml:"name"`
	}

	err = yaml.Unmarshal(data, &head)
	if err != nil {
		return Target{}, errors.Wrap(err, "decode target")
	}

	t = Default()

	if b, ok := builtin[head.Name]; ok {
		t = b
	}

	err = yaml.Unmarshal(data, &t)
	if err != nil {
		return Target{}, errors.Wrap(err, "decode target")
	}

	return t, nil
}

// Symbol is the global symbol for the function name.
func (t Target) Symbol(name string) string {
	return t.SymbolPrefix + name
}

// Local is the assembler label for the function-local label name.
func (t Target) Local(name string) string {
	return t.LocalPrefix + name
}

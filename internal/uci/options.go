package uci

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrUnknownOption is returned by Set for names never registered.
var ErrUnknownOption = errors.New("unknown option")

type OptionType string

const (
	OptionCheck  OptionType = "check"
	OptionSpin   OptionType = "spin"
	OptionString OptionType = "string"
	OptionButton OptionType = "button"
)

// Option is one registered engine option.
type Option struct {
	Name     string
	Type     OptionType
	Default  string
	Min, Max int // spin bounds

	// OnChange runs after the value is accepted.
	OnChange func(value string)

	value string
}

// Options holds the registered option set. Registration happens once
// at startup; lookups are case-insensitive as GUIs spell names freely.
type Options struct {
	order  []string
	byName map[string]*Option
}

func NewOptions() *Options {
	return &Options{byName: make(map[string]*Option)}
}

func (o *Options) Register(opt Option) {
	opt.value = opt.Default
	key := strings.ToLower(opt.Name)
	if _, exists := o.byName[key]; !exists {
		o.order = append(o.order, opt.Name)
	}
	o.byName[key] = &opt
}

// Set updates a registered option. Unknown names fail with
// ErrUnknownOption; malformed values for typed options are rejected
// without touching the stored value.
func (o *Options) Set(name, value string) error {
	opt, ok := o.byName[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownOption, name)
	}

	switch opt.Type {
	case OptionCheck:
		v := strings.ToLower(value)
		if v != "true" && v != "false" {
			return fmt.Errorf("option %s wants true/false, got %q", opt.Name, value)
		}
		opt.value = v
	case OptionSpin:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("option %s wants a number, got %q", opt.Name, value)
		}
		if n < opt.Min {
			n = opt.Min
		}
		if n > opt.Max {
			n = opt.Max
		}
		opt.value = strconv.Itoa(n)
	case OptionButton:
		// no value to store
	default:
		opt.value = value
	}

	if opt.OnChange != nil {
		opt.OnChange(opt.value)
	}
	return nil
}

func (o *Options) Get(name string) string {
	if opt, ok := o.byName[strings.ToLower(name)]; ok {
		return opt.value
	}
	return ""
}

func (o *Options) GetBool(name string) bool {
	return o.Get(name) == "true"
}

func (o *Options) GetInt(name string) int {
	n, _ := strconv.Atoi(o.Get(name))
	return n
}

// Has reports whether name is registered.
func (o *Options) Has(name string) bool {
	_, ok := o.byName[strings.ToLower(name)]
	return ok
}

// Values returns the current value of every non-button option, for
// persistence.
func (o *Options) Values() map[string]string {
	values := make(map[string]string, len(o.order))
	for _, name := range o.order {
		opt := o.byName[strings.ToLower(name)]
		if opt.Type == OptionButton {
			continue
		}
		values[opt.Name] = opt.value
	}
	return values
}

// WriteUCI prints the option set in "uci" response format, in
// registration order.
func (o *Options) WriteUCI(w io.Writer) {
	for _, name := range o.order {
		opt := o.byName[strings.ToLower(name)]
		switch opt.Type {
		case OptionSpin:
			fmt.Fprintf(w, "option name %s type spin default %s min %d max %d\n",
				opt.Name, opt.Default, opt.Min, opt.Max)
		case OptionButton:
			fmt.Fprintf(w, "option name %s type button\n", opt.Name)
		default:
			def := opt.Default
			if def == "" {
				def = "<empty>"
			}
			fmt.Fprintf(w, "option name %s type %s default %s\n", opt.Name, opt.Type, def)
		}
	}
}

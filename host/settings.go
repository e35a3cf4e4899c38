// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/beevik/prefixtree/v2"
	"github.com/pgbemu/pgbdebug/device"
)

// Settings holds the debugger's configuration variables.
type Settings struct {
	Decoder     string `doc:"instruction decoder used on reset"`
	Image       string `doc:"image file loaded on reset"`
	DisasmLines int    `doc:"instructions shown in the disassembly panel"`
	StepLimit   int    `doc:"max steps per continue, 0 for no limit"`
	ShowPanels  bool   `doc:"show registers and disassembly after stepping"`
	Color       bool   `doc:"colorize console output"`
}

// DefaultSettings returns the settings used by a new host.
func DefaultSettings() Settings {
	return Settings{
		Decoder:     string(device.DecoderTable),
		Image:       "",
		DisasmLines: 5,
		StepLimit:   0,
		ShowPanels:  false,
		Color:       false,
	}
}

type settingsField struct {
	name  string
	index int
	kind  reflect.Kind
	typ   reflect.Type
	doc   string
}

var (
	settingsTree   = prefixtree.New[*settingsField]()
	settingsFields []settingsField
)

func init() {
	settingsType := reflect.TypeOf(Settings{})
	settingsFields = make([]settingsField, settingsType.NumField())
	for i := 0; i < len(settingsFields); i++ {
		f := settingsType.Field(i)
		doc, _ := f.Tag.Lookup("doc")
		settingsFields[i] = settingsField{
			name:  f.Name,
			index: i,
			kind:  f.Type.Kind(),
			typ:   f.Type,
			doc:   doc,
		}
		settingsTree.Add(strings.ToLower(f.Name), &settingsFields[i])
	}
}

// Display writes every setting and its description to the output.
func (s *Settings) Display(o Output) {
	value := reflect.ValueOf(s).Elem()
	for i, f := range settingsFields {
		v := value.Field(i)
		var s string
		switch f.kind {
		case reflect.String:
			s = fmt.Sprintf("    %-12s \"%s\"", f.name, v.String())
		default:
			s = fmt.Sprintf("    %-12s %v", f.name, v)
		}
		o.Write(fmt.Sprintf("%-32s ", s), ColorNone, false)
		o.Write(fmt.Sprintf("(%s)", f.doc), ColorBlue, true)
	}
}

// Set assigns a new value to the setting identified by a unique prefix of
// its name. The value string is converted to the setting's type; numbers
// use the same base prefixes as addresses.
func (s *Settings) Set(key, value string) (name string, err error) {
	f, err := settingsTree.FindValue(strings.ToLower(key))
	if err != nil {
		return "", fmt.Errorf("setting '%s' not found", key)
	}

	var v any
	switch f.kind {
	case reflect.String:
		v = value
	case reflect.Bool:
		v, err = stringToBool(value)
	case reflect.Int:
		var n uint64
		n, err = parseNumber(value, 31)
		v = int(n)
	default:
		err = errors.New("invalid type")
	}
	if err != nil {
		return "", err
	}

	if f.name == "Decoder" {
		if _, err := device.ParseDecoder(value); err != nil {
			return "", err
		}
	}

	vIn := reflect.ValueOf(v)
	if !vIn.Type().ConvertibleTo(f.typ) {
		return "", errors.New("invalid type")
	}
	vOut := reflect.ValueOf(s).Elem().Field(f.index)
	vOut.Set(vIn.Convert(f.typ))
	return f.name, nil
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"barracuda/envtable"
)

// envFlag collects repeated `--env NAME[:INDEX][=VALUE]` flags. The
// NAME[:INDEX] half declares the variable for envtable.Request, exactly as
// `compile`/`emit` need; `run` additionally reads the `=VALUE` half
// to seed the VM's env slice before executing, since the compiler itself
// never assigns env vars a runtime value — only a host index.
type envFlag struct {
	decls  []envtable.EnvVarDecl
	values map[string]float64
}

func (e *envFlag) String() string {
	var parts []string
	for _, d := range e.decls {
		part := d.Name
		if d.HasHostIndex {
			part += fmt.Sprintf(":%d", d.HostIndex)
		}
		if v, ok := e.values[d.Name]; ok {
			part += fmt.Sprintf("=%g", v)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ",")
}

func (e *envFlag) Set(raw string) error {
	decl, value, hasValue, err := parseEnvFlag(raw)
	if err != nil {
		return err
	}
	e.decls = append(e.decls, decl)
	if hasValue {
		if e.values == nil {
			e.values = map[string]float64{}
		}
		e.values[decl.Name] = value
	}
	return nil
}

func parseEnvFlag(raw string) (decl envtable.EnvVarDecl, value float64, hasValue bool, err error) {
	namePart, valuePart, hasValue := strings.Cut(raw, "=")
	name, idxPart, hasIdx := strings.Cut(namePart, ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return decl, 0, false, fmt.Errorf("--env: empty variable name in %q", raw)
	}
	decl = envtable.EnvVarDecl{Name: name}
	if hasIdx {
		idx, convErr := strconv.Atoi(strings.TrimSpace(idxPart))
		if convErr != nil {
			return decl, 0, false, fmt.Errorf("--env: invalid host index in %q: %w", raw, convErr)
		}
		decl.HostIndex = idx
		decl.HasHostIndex = true
	}
	if hasValue {
		value, err = strconv.ParseFloat(strings.TrimSpace(valuePart), 64)
		if err != nil {
			return decl, 0, false, fmt.Errorf("--env: invalid value in %q: %w", raw, err)
		}
	}
	return decl, value, hasValue, nil
}

// buildEnvSlice sizes an env slice to fit every declared host index (and
// defaults every undeclared or unvalued slot to 0), for handing to vm.New.
func buildEnvSlice(decls []envtable.EnvVarDecl, values map[string]float64) []float64 {
	size := 0
	for _, d := range decls {
		if d.HasHostIndex && d.HostIndex+1 > size {
			size = d.HostIndex + 1
		}
	}
	env := make([]float64, size)
	for _, d := range decls {
		if !d.HasHostIndex {
			continue
		}
		if v, ok := values[d.Name]; ok {
			env[d.HostIndex] = v
		}
	}
	return env
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-automation"
	"github.com/goliatone/go-automation/catalog"
	"github.com/goliatone/go-automation/compiler"
	"github.com/goliatone/go-automation/validate"
)

type Globals struct {
	Registry string `help:"Type registry file (YAML, JSON or TOML). Built-in CRM types are used when empty." type:"existingfile" short:"r"`
	LogLevel string `help:"Log level." default:"warn" enum:"trace,debug,info,warn,error"`
	Order    string `help:"Action ordering: position or edges." default:"position" enum:"position,edges"`
}

type CLI struct {
	Globals

	Compile  CompileCmd  `cmd:"" help:"Load a definition through the editor, compile it and print the result."`
	Validate ValidateCmd `cmd:"" help:"Report connectivity warnings and field errors."`
	Preview  PreviewCmd  `cmd:"" help:"Print the plain language summary."`
	DryRun   DryRunCmd   `cmd:"" name:"dry-run" help:"Explain what would happen without running anything."`
	Catalog  CatalogCmd  `cmd:"" help:"Print the available trigger, condition and action types."`
}

type env struct {
	out    io.Writer
	reg    *catalog.Registry
	logger automation.Logger
	order  compiler.Linearizer
}

func newEnv(g Globals, stdout, stderr io.Writer) (*env, error) {
	reg := catalog.Default()
	if strings.TrimSpace(g.Registry) != "" {
		loaded, err := catalog.LoadRegistry(g.Registry)
		if err != nil {
			return nil, err
		}
		reg = loaded
	}
	e := &env{
		out:    stdout,
		reg:    reg,
		logger: automation.NewGlogLogger(stderr, g.LogLevel),
		order:  compiler.Linearize,
	}
	if g.Order == "edges" {
		e.order = compiler.FromTrigger
	}
	return e, nil
}

func (e *env) editor(path string, opts ...automation.Option) (*automation.Editor, error) {
	def, err := compiler.LoadDefinition(path)
	if err != nil {
		return nil, err
	}
	base := []automation.Option{
		automation.WithLogger(e.logger),
		automation.WithInitialDefinition(def),
		automation.WithLinearizer(e.order),
	}
	return automation.NewEditor(e.reg, append(base, opts...)...)
}

func (e *env) printf(format string, args ...any) {
	fmt.Fprintf(e.out, format, args...)
}

type DefinitionArg struct {
	Definition string `arg:"" help:"Definition file (YAML, JSON or TOML)." type:"existingfile"`
}

type CompileCmd struct {
	DefinitionArg
	Format string `help:"Output format." default:"json" enum:"json,yaml,toml" short:"f"`
	Strict bool   `help:"Fail when any node has field errors."`
}

func (c *CompileCmd) Run(e *env) error {
	ed, err := e.editor(c.Definition, automation.WithStrictSave(c.Strict))
	if err != nil {
		return err
	}
	_, err = ed.Save(context.Background(), automation.SaveFunc(func(_ context.Context, def compiler.Definition) error {
		data, err := def.Encode(c.Format)
		if err != nil {
			return err
		}
		e.printf("%s\n", strings.TrimRight(string(data), "\n"))
		return nil
	}))
	return err
}

type ValidateCmd struct {
	DefinitionArg
}

func (c *ValidateCmd) Run(e *env) error {
	ed, err := e.editor(c.Definition)
	if err != nil {
		return err
	}
	diags := ed.Diagnostics()
	for _, d := range diags {
		e.printf("%-7s %s %s\n", d.Severity, d.Code, d.Message)
	}
	if _, err := ed.Compile(); err != nil {
		return err
	}
	if validate.HasErrors(diags) {
		return fmt.Errorf("%d node(s) with field errors", len(validate.InvalidNodes(diags)))
	}
	e.printf("ok\n")
	return nil
}

type PreviewCmd struct {
	DefinitionArg
}

func (c *PreviewCmd) Run(e *env) error {
	ed, err := e.editor(c.Definition)
	if err != nil {
		return err
	}
	for _, line := range ed.Preview() {
		e.printf("%s\n", line)
	}
	return nil
}

type DryRunCmd struct {
	DefinitionArg
	JSON bool `help:"Print the report as JSON."`
}

func (c *DryRunCmd) Run(e *env) error {
	ed, err := e.editor(c.Definition)
	if err != nil {
		return err
	}
	report := ed.DryRun()
	if c.JSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		e.printf("%s\n", data)
	} else {
		e.printf("%s\n", report.String())
	}
	if report.Blocking != nil {
		return report.Blocking
	}
	return nil
}

type CatalogCmd struct {
	Format string `help:"Output format." default:"yaml" enum:"json,yaml" short:"f"`
}

func (c *CatalogCmd) Run(e *env) error {
	doc := e.reg.Export()
	var (
		data []byte
		err  error
	)
	if c.Format == "json" {
		data, err = json.MarshalIndent(doc, "", "  ")
	} else {
		data, err = yaml.Marshal(doc)
	}
	if err != nil {
		return err
	}
	e.printf("%s\n", strings.TrimRight(string(data), "\n"))
	return nil
}

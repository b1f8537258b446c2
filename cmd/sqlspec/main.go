// Command sqlspec is a small demonstration CLI exercising the statement
// engine end to end: compile a statement to a target parameter style,
// explain it, or load named statements out of an aiosql-style .sql file.
// Modeled on the teacher's cmd/snapsql CLI (kong subcommands, fatih/color
// diagnostics).
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/sqlspec/sqlspec"
	"github.com/sqlspec/sqlspec/builder"
	"github.com/sqlspec/sqlspec/fileloader"
	"github.com/sqlspec/sqlspec/internal/astfacade"
	"github.com/sqlspec/sqlspec/parameter"
	"github.com/sqlspec/sqlspec/pipeline"
	"github.com/sqlspec/sqlspec/processor"
	"github.com/sqlspec/sqlspec/statement"
)

// Context carries global flags into every subcommand's Run.
type Context struct {
	Dialect string
	Quiet   bool
}

var CLI struct {
	Dialect string        `help:"SQL dialect" default:"postgres" enum:"postgres,mysql,sqlite,mariadb,oracle,mssql,generic"`
	Quiet   bool          `help:"Suppress informational output" short:"q"`
	Compile CompileCmd    `cmd:"" help:"Compile a SQL statement to a target parameter style"`
	Explain ExplainCmd    `cmd:"" help:"Wrap a statement in EXPLAIN and compile it"`
	Load    LoadFileCmd   `cmd:"" name:"load-file" help:"Load named statements from an aiosql-style .sql file"`
	Version VersionCmd    `cmd:"" help:"Show version information"`
}

func buildConfig(dialect sqlspec.Dialect, style parameter.Style) (statement.StatementConfig, error) {
	cfg := statement.DefaultStatementConfig(dialect, style)

	validate, err := pipeline.NewValidateStep(pipeline.ValidateOptions{})
	if err != nil {
		return statement.StatementConfig{}, err
	}
	cfg.PipelineSteps = statement.DefaultPipeline(pipeline.ParameterizeLiterals, pipeline.NewOptimizeStep(nil, nil), validate, cfg)

	p, err := processor.New(processor.Options{})
	if err != nil {
		return statement.StatementConfig{}, err
	}
	cfg.Processor = p
	return cfg, nil
}

func parseStyle(name string) (parameter.Style, error) {
	switch strings.ToLower(name) {
	case "qmark", "":
		return parameter.QMARK, nil
	case "numeric":
		return parameter.NUMERIC, nil
	case "named_colon":
		return parameter.NamedColon, nil
	case "named_at":
		return parameter.NamedAt, nil
	case "positional_colon":
		return parameter.PositionalColon, nil
	case "positional_pyformat":
		return parameter.PositionalPyformat, nil
	case "named_pyformat":
		return parameter.NamedPyformat, nil
	case "static":
		return parameter.Static, nil
	default:
		return 0, fmt.Errorf("unknown parameter style: %s", name)
	}
}

// CompileCmd compiles raw SQL text to a target parameter style.
type CompileCmd struct {
	SQL    string   `arg:"" help:"SQL text to compile"`
	Style  string   `help:"Target parameter style" default:"qmark"`
	Params []string `help:"Positional parameter values, compiled in order" short:"p"`
}

func (c *CompileCmd) Run(ctx *Context) error {
	style, err := parseStyle(c.Style)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(sqlspec.Dialect(ctx.Dialect), style)
	if err != nil {
		return err
	}

	sql := statement.New(c.SQL, cfg)
	for _, v := range c.Params {
		sql = sql.WithPositionalParam(parameter.New(v))
	}

	compiled, err := sql.Compile(style)
	if err != nil {
		color.Red("compile failed: %v", err)
		return err
	}

	if !ctx.Quiet {
		color.Blue("Compiled SQL:")
	}
	fmt.Println(compiled.SQL)

	if len(compiled.Parameters) > 0 && !ctx.Quiet {
		color.Blue("Parameters:")
		for i, p := range compiled.Parameters {
			fmt.Printf("  [%d] %v\n", i, p.Native())
		}
	}
	return nil
}

// ExplainCmd wraps a statement in EXPLAIN and compiles it.
type ExplainCmd struct {
	SQL     string `arg:"" help:"SQL text to explain"`
	Style   string `help:"Target parameter style" default:"qmark"`
	Analyze bool   `help:"Use EXPLAIN ANALYZE instead of EXPLAIN"`
}

func (c *ExplainCmd) Run(ctx *Context) error {
	style, err := parseStyle(c.Style)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(sqlspec.Dialect(ctx.Dialect), style)
	if err != nil {
		return err
	}

	// builder.Of requires the target's AST to already be populated (the
	// Explain builder wraps an Expression, not raw text), so parse eagerly
	// here rather than letting the processor do it lazily during Compile.
	expr, err := astfacade.Parse(c.SQL, ctx.Dialect)
	if err != nil {
		color.Red("parse failed: %v", err)
		return err
	}
	target := statement.NewFromExpression(expr, cfg)
	explained, err := builder.Of(cfg, target).Analyze(c.Analyze).Build()
	if err != nil {
		color.Red("explain build failed: %v", err)
		return err
	}

	compiled, err := explained.Compile(style)
	if err != nil {
		color.Red("compile failed: %v", err)
		return err
	}

	if !ctx.Quiet {
		color.Blue("Compiled SQL:")
	}
	fmt.Println(compiled.SQL)
	return nil
}

// LoadFileCmd loads named statements out of an aiosql-style .sql file.
type LoadFileCmd struct {
	Path   string `arg:"" help:"Path to a .sql file"`
	Pretty bool   `help:"Pretty-print JSON output"`
}

func (c *LoadFileCmd) Run(ctx *Context) error {
	loader, err := fileloader.New(64)
	if err != nil {
		return err
	}

	statements, err := loader.LoadPath(c.Path)
	if err != nil {
		color.Red("load failed: %v", err)
		return err
	}

	if !ctx.Quiet {
		color.Blue("Loaded %d statement(s) from %s", len(statements), c.Path)
	}

	var b []byte
	if c.Pretty {
		b, err = json.MarshalIndent(statements, "", "  ")
	} else {
		b, err = json.Marshal(statements)
	}
	if err != nil {
		return err
	}

	os.Stdout.Write(b)
	os.Stdout.WriteString("\n")
	return nil
}

// VersionCmd prints the CLI's version string.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("sqlspec v0.1.0")
	return nil
}

func main() {
	k := kong.Parse(&CLI)
	appCtx := &Context{Dialect: CLI.Dialect, Quiet: CLI.Quiet}
	if err := k.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

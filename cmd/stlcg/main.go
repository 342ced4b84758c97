// Command stlcg is a thin driver over the codegen core, grounded on
// run()/main() in vslc/src/main.go: parse options, generate every POU,
// and write the resulting LLVM IR to the configured output file.
//
// This module's scope is code generation only (spec.md's Non-goals
// exclude lexing/parsing/optimisation), so the driver below builds its
// POU specs directly rather than reading source text; wiring in a real
// front end only means producing []codegen.PouSpec some other way.
package main

import (
	"fmt"
	"os"
	"sync"

	"stlcg/src/ast"
	"stlcg/src/codegen"
	"stlcg/src/codegen/irb"
	"stlcg/src/diagnostics"
	"stlcg/src/index"
	"stlcg/src/typesystem"
	"stlcg/src/util"
)

func main() {
	opt, err := util.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "stlcg:", err)
		util.PrintHelp()
		os.Exit(1)
	}
	if err := run(opt); err != nil {
		fmt.Fprintln(os.Stderr, "stlcg:", err)
		os.Exit(1)
	}
}

// run generates every requested POU concurrently, at most opt.Threads at
// a time (spec.md §5: one
// Builder/Index-consumer per POU worker goroutine, since the builder's
// insertion cursor is not thread-safe to share), then writes the
// concatenated IR to opt.Out.
func run(opt util.GeneratorOptions) error {
	pous := demoPous()

	var wg sync.WaitGroup
	results := make([]string, len(pous))
	diags := make([]*diagnostics.Collector, len(pous))
	sem := make(chan struct{}, opt.Threads)

	for i, spec := range pous {
		wg.Add(1)
		go func(i int, spec codegen.PouSpec) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			b := irb.New(spec.Name)
			defer b.Dispose()

			ib := index.NewMapIndexBuilder()
			entry := codegen.DeclarePou(b, ib, spec)
			idx := ib.Build()

			acc := diagnostics.NewCollector()
			codegen.GenerateFunctionBody(b, idx, acc, opt, entry, spec)

			diags[i] = acc
			results[i] = b.String()
		}(i, spec)
	}
	wg.Wait()

	hadErrors := false
	for i, acc := range diags {
		for _, d := range acc.Diagnostics() {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", pous[i].Name, d.Severity, d.Message)
		}
		if acc.HasErrors() {
			hadErrors = true
		}
	}
	if hadErrors {
		return fmt.Errorf("generation failed with errors")
	}

	out := os.Stdout
	if opt.Out != "" && opt.Out != "-" {
		f, err := os.Create(opt.Out)
		if err != nil {
			return fmt.Errorf("opening output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	for _, ir := range results {
		fmt.Fprintln(out, ir)
		if opt.Verbose {
			fmt.Fprintln(os.Stdout, ir)
		}
	}
	return nil
}

// demoPous builds a couple of representative POU specs exercising the
// generator's numeric promotion and control-flow constructs end to end.
func demoPous() []codegen.PouSpec {
	retType := typesystem.DINT
	return []codegen.PouSpec{
		{
			Name:       "Square",
			Params:     []codegen.VarSpec{{Name: "x", Type: typesystem.DINT}},
			ReturnType: &retType,
			Body: []ast.Statement{
				ast.Assignment{
					Left:  ast.Reference{Name: "Square"},
					Right: ast.BinaryExpression{Op: "*", Left: ast.Reference{Name: "x"}, Right: ast.Reference{Name: "x"}},
				},
			},
		},
		{
			Name: "SumToTen",
			Locals: []codegen.VarSpec{
				{Name: "i", Type: typesystem.DINT},
				{Name: "total", Type: typesystem.DINT},
			},
			Body: []ast.Statement{
				ast.ForLoop{
					Counter: ast.Reference{Name: "i"},
					Start:   ast.Literal{Kind: ast.LiteralInteger, Value: "1"},
					End:     ast.Literal{Kind: ast.LiteralInteger, Value: "10"},
					Body: []ast.Statement{
						ast.Assignment{
							Left:  ast.Reference{Name: "total"},
							Right: ast.BinaryExpression{Op: "+", Left: ast.Reference{Name: "total"}, Right: ast.Reference{Name: "i"}},
						},
					},
				},
			},
		},
	}
}

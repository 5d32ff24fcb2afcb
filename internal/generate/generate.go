package generate

import (
	"context"

	diag "github.com/farmstrong8/gqlmockgen/internal/diag"
	language "github.com/farmstrong8/gqlmockgen/internal/language"
	mockval "github.com/farmstrong8/gqlmockgen/internal/mockval"
	schema "github.com/farmstrong8/gqlmockgen/internal/schema"
	selection "github.com/farmstrong8/gqlmockgen/internal/selection"
	shape "github.com/farmstrong8/gqlmockgen/internal/shape"
)

// Options carries the per-run configuration and diagnostics bus. A nil Bus
// drops all warnings.
type Options struct {
	Config Config
	Bus    *diag.Bus
}

// Run drives one generation pass: it builds the cross-document fragment
// registry, then produces artifacts for every fragment and operation in
// document order, fragments first within each document. The returned list is
// dependency-ordered: nested and variant shapes precede the shapes that
// reference their factories.
//
// Run is synchronous and pure apart from bus events; all mutable state is
// scoped to the invocation, so the schema and documents may be shared by
// concurrent runs.
func Run(ctx context.Context, sch *schema.Schema, docs []*language.QueryDocument, opts Options) ([]shape.Artifact, error) {
	oracle, err := mockval.NewOracle(mockval.Config{Scalars: opts.Config.Scalars})
	if err != nil {
		return nil, err
	}

	registry := selection.BuildRegistry(docs)
	resolver := selection.NewResolver(registry, opts.Bus)
	resolver.MaxDepth = opts.Config.maxFragmentDepth()

	builder := shape.NewBuilder(sch, oracle, opts.Bus, shape.Options{
		Namer:           shape.Namer{AddOperationSuffix: opts.Config.addOperationSuffix()},
		MaxNestingDepth: opts.Config.maxNestingDepth(),
	})

	warnings := (&diag.Collector{}).Attach(opts.Bus)

	for _, doc := range docs {
		for _, frag := range doc.Fragments {
			before, warned := len(builder.Artifacts()), warnings.Count()
			diag.Publish(ctx, opts.Bus, diag.OperationStart{Name: frag.Name, Kind: string(shape.KindFragment)})
			resolved := resolver.Resolve(ctx, frag.SelectionSet)
			if err := builder.BuildFragment(ctx, frag, resolved); err != nil {
				return nil, err
			}
			diag.Publish(ctx, opts.Bus, diag.OperationFinish{
				Name:      frag.Name,
				Kind:      string(shape.KindFragment),
				Artifacts: len(builder.Artifacts()) - before,
				Warnings:  warnings.Count() - warned,
			})
		}
		for _, op := range doc.Operations {
			before, warned := len(builder.Artifacts()), warnings.Count()
			diag.Publish(ctx, opts.Bus, diag.OperationStart{Name: op.Name, Kind: string(op.Operation)})
			resolved := resolver.Resolve(ctx, op.SelectionSet)
			if err := builder.BuildOperation(ctx, op, resolved); err != nil {
				return nil, err
			}
			diag.Publish(ctx, opts.Bus, diag.OperationFinish{
				Name:      op.Name,
				Kind:      string(op.Operation),
				Artifacts: len(builder.Artifacts()) - before,
				Warnings:  warnings.Count() - warned,
			})
		}
	}

	return builder.Artifacts(), nil
}

// Package gen renders model files from data store metadata.
//
// # Pipeline
//
// For every configured model the Generator runs four phases in order:
//
//	resolve   look up the model's data store and connect it
//	   ↓
//	inspect   read schema, relation and primary key into a Model
//	   ↓
//	render    run the Renderer over the Model
//	   ↓
//	write     write the output file, creating parent directories
//
// A failure in any phase is reported as an ormgen.GenerationError naming
// the model and the phase. With the default FailFast policy the first
// failure stops the run; ContinueOnError renders every model and joins
// the failures.
//
// # Renderers
//
// PHP renders the embedded text/template producing a <Class>Base class
// with getSchema, getRelation and getPrimaryKey methods. NewTemplate and
// ParseTemplateFile accept custom templates executed against the same
// Model. Go renders an equivalent struct with jennifer.
//
// # Example
//
//	g, err := gen.NewGenerator(
//	    gen.WithOutputDir("models"),
//	    gen.WithFailurePolicy(gen.ContinueOnError),
//	)
//	if err != nil {
//	    return err
//	}
//	report, err := g.Generate(ctx, registry, cfg.Models)
package gen

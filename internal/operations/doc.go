// Package operations orchestrates a customer ETL run.
//
// A Pipeline executes its stages strictly in sequence:
//
//	extract -> transform -> [validate] -> compute_features -> load_clean -> load_features
//
// The validate stage only runs when strict validation is enabled. Each stage gets
// its own span and duration sample; the first failing stage aborts the run and is
// reported as a *StageError wrapping the underlying typed error. Outputs written
// before the failure are left in place.
//
// Example usage:
//
//	cfg, err := config.Load(root)
//	if err != nil {
//	    return err
//	}
//	paths, err := config.NewPaths(root, cfg)
//	if err != nil {
//	    return err
//	}
//
//	pipeline, err := operations.NewPipeline(cfg, paths, logger, telemetry)
//	if err != nil {
//	    return err
//	}
//	summary, err := pipeline.Run(ctx)
//
// RunPipeline is the shortcut that runs with the default configuration:
//
//	summary, err := operations.RunPipeline(ctx, "/path/to/project")
package operations

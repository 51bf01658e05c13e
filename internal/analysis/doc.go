// Package analysis provides post-processing for traced solution branches.
//
// The package works on a completed [contin.Branch]:
//
//   - [StepCollapse]: detects the step-size collapse a fold causes
//   - [TurningPointEstimate]: bounds the fold location from the collapse
//   - [Slope]: end-of-branch d||u||/dlambda estimate
//   - [BranchToASCII]: branch diagram rendered as an ASCII canvas
//
// # Fold Detection
//
// Natural continuation cannot pass a turning point; it presses against it
// with ever-smaller steps instead. A collapsed final step size is therefore
// a usable fold indicator:
//
//	if collapsed, _ := analysis.StepCollapse(branch); collapsed {
//	    lambda, _ := analysis.TurningPointEstimate(branch)
//	    // branch folds near lambda
//	}
package analysis

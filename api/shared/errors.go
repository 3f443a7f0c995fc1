/* errors.go
 * Contains the error types shared across sub packages. Engine level errors are fatal to the single call that
 * raised them; aggregation level errors degrade gracefully per item.
 * Authors: Zachary Bower
 */

package shared

import "fmt"

// InvalidBracketStateError reports a malformed or out of range mutation
// request. The operation that raised it made no changes; the caller must retry
// with corrected input.
type InvalidBracketStateError struct {
	Op     string
	Detail string
}

func (e *InvalidBracketStateError) Error() string {
	return fmt.Sprintf("invalid bracket state in %s: %s", e.Op, e.Detail)
}

// MissingTeamDataError reports a slot comparison that encountered unusable
// team data. Scoring recovers by skipping that slot's contribution.
type MissingTeamDataError struct {
	Location string
}

func (e *MissingTeamDataError) Error() string {
	return fmt.Sprintf("missing team data at %s", e.Location)
}

// SimulationTrialError reports a single Monte Carlo trial that failed to
// complete. The orchestrator drops the trial and shrinks the denominators.
type SimulationTrialError struct {
	Trial int
	Err   error
}

func (e *SimulationTrialError) Error() string {
	return fmt.Sprintf("simulation trial %d failed: %v", e.Trial, e.Err)
}

func (e *SimulationTrialError) Unwrap() error {
	return e.Err
}

// DataSourceUnavailableError reports that a required data source (truth
// bracket, chalk bracket, scores feed) could not be loaded. Fatal to the whole
// request; no partial result is produced.
type DataSourceUnavailableError struct {
	Source string
	Err    error
}

func (e *DataSourceUnavailableError) Error() string {
	return fmt.Sprintf("data source %s unavailable: %v", e.Source, e.Err)
}

func (e *DataSourceUnavailableError) Unwrap() error {
	return e.Err
}

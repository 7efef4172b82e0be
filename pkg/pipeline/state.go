package pipeline

// State names the Pipeline Driver's state machine.
type State string

const (
	StateInit              State = "init"
	StateParsing           State = "parsing"
	StateAnalysis          State = "analysis"
	StatePlanning          State = "planning"
	StateProgressiveSearch State = "progressive_search"
	StateDedupScore        State = "dedup_score"
	StateValidation        State = "validation"
	StateRendering         State = "rendering"
	StateDone              State = "done"
	StateAborted           State = "aborted"
)

// order is the strict linear sequence a successful run passes through.
// aborted is reachable from any state and is handled separately.
var order = []State{
	StateInit, StateParsing, StateAnalysis, StatePlanning,
	StateProgressiveSearch, StateDedupScore, StateValidation,
	StateRendering, StateDone,
}

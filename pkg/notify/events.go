package notify

import (
	"github.com/mywio/odyssey-build/pkg/builder"
	"github.com/mywio/odyssey-build/pkg/core"
)

// SuccessEvents returns the events describing a finished build: one
// build_warning per warning followed by build_success.
func SuccessEvents(res *builder.Result) []core.BuildEvent {
	events := make([]core.BuildEvent, 0, len(res.Warnings)+1)
	for _, warning := range res.Warnings {
		events = append(events, core.NewBuildEvent(core.EventBuildWarning, warning, map[string]interface{}{
			"output_dir": res.OutputDir,
		}))
	}
	events = append(events, core.NewBuildEvent(core.EventBuildSuccess, "Build complete", map[string]interface{}{
		"output_dir":    res.OutputDir,
		"entries":       res.Entries,
		"replacements":  res.Replacements,
		"assets_copied": res.AssetsCopied,
		"duration_ms":   res.Duration.Milliseconds(),
	}))
	return events
}

// FailureEvent describes a build that stopped with err.
func FailureEvent(err error) core.BuildEvent {
	return core.NewBuildEvent(core.EventBuildFailed, err.Error(), nil)
}

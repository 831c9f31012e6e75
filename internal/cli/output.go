package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mesh-intelligence/memmgr/internal/manager"
	"github.com/mesh-intelligence/memmgr/internal/notice"
	"github.com/mesh-intelligence/memmgr/pkg/types"
)

type noticeView struct {
	ID       types.EventID `json:"id"`
	Severity string        `json:"severity"`
	Message  string        `json:"message"`
}

type resultView struct {
	Outcome      *types.CommandOutcome `json:"outcome,omitempty"`
	Housekeeping manager.Housekeeping  `json:"housekeeping"`
	Notices      []noticeView          `json:"notices"`
	Error        string                `json:"error,omitempty"`
}

func noticeViews(ns []notice.Notice) []noticeView {
	out := make([]noticeView, 0, len(ns))
	for _, n := range ns {
		out = append(out, noticeView{ID: n.ID, Severity: n.Severity.String(), Message: n.Message})
	}
	return out
}

// printResult writes the notices a command produced, or the whole result
// as JSON.
func printResult(w io.Writer, jsonMode bool, s *session, outcome types.CommandOutcome, cmdErr error) error {
	if jsonMode {
		v := resultView{
			Housekeeping: s.dispatcher.Housekeeping(),
			Notices:      noticeViews(s.notices.Notices),
		}
		if cmdErr == nil {
			v.Outcome = &outcome
		} else {
			v.Error = cmdErr.Error()
		}
		return writeJSON(w, v)
	}

	for _, n := range s.notices.Notices {
		if _, err := fmt.Fprintf(w, "%-5s %3d  %s\n", n.Severity, n.ID, n.Message); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

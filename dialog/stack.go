package dialog

import (
	"encoding/json"

	"github.com/tripdesk/flightbot/prompt"
)

// Frame is one active dialog invocation on the stack. All fields are
// serializable so the stack survives between turns.
type Frame struct {
	Dialog  ID              `json:"dialog"`
	Step    int             `json:"step"`
	Options json.RawMessage `json:"options,omitempty"`
	// Prompt is non-nil exactly when the frame is awaiting user input.
	Prompt *prompt.Spec `json:"prompt,omitempty"`
}

// Stack is the ordered set of active dialogs for one conversation. The last
// frame is the one currently receiving input.
type Stack struct {
	Frames []*Frame `json:"frames"`
}

func (s *Stack) Push(f *Frame) {
	s.Frames = append(s.Frames, f)
}

func (s *Stack) Pop() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	top := s.Frames[len(s.Frames)-1]
	s.Frames = s.Frames[:len(s.Frames)-1]
	return top
}

func (s *Stack) Top() *Frame {
	if len(s.Frames) == 0 {
		return nil
	}
	return s.Frames[len(s.Frames)-1]
}

func (s *Stack) Depth() int {
	return len(s.Frames)
}

func (s *Stack) Clear() {
	s.Frames = nil
}

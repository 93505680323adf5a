package chat

// TurnStatus tracks whether a request is outstanding
type TurnStatus int

const (
	Idle TurnStatus = iota
	Composing
)

func (s TurnStatus) String() string {
	switch s {
	case Idle:
		return "idle"
	case Composing:
		return "composing"
	}
	return "unknown"
}

// TurnResult is the single outcome of a dispatched turn. Err set means the
// turn failed; Answer and Sources are then ignored.
type TurnResult struct {
	Answer  string
	Sources []string
	Err     error
}

func Success(answer string, sources []string) TurnResult {
	return TurnResult{Answer: answer, Sources: sources}
}

func Failure(err error) TurnResult {
	return TurnResult{Err: err}
}

func (r TurnResult) Failed() bool {
	return r.Err != nil
}

package commands

import "fmt"

type Result struct {
	Message string
}

type Handlers struct {
	Add     func(AddArgs) (Result, error)
	Done    func(TargetArgs) (Result, error)
	Undone  func(TargetArgs) (Result, error)
	Skip    func(TargetArgs) (Result, error)
	Unskip  func(TargetArgs) (Result, error)
	Pause   func(TargetArgs) (Result, error)
	Remove  func(TargetArgs) (Result, error)
	History func(HistoryArgs) (Result, error)
}

func Execute(cmd Command, handlers Handlers) (Result, error) {
	switch cmd.Type {
	case TypeAdd:
		if handlers.Add == nil {
			return Result{}, missingHandler("add")
		}
		return handlers.Add(*cmd.Add)
	case TypeDone:
		if handlers.Done == nil {
			return Result{}, missingHandler("done")
		}
		return handlers.Done(*cmd.Done)
	case TypeUndone:
		if handlers.Undone == nil {
			return Result{}, missingHandler("undone")
		}
		return handlers.Undone(*cmd.Undone)
	case TypeSkip:
		if handlers.Skip == nil {
			return Result{}, missingHandler("skip")
		}
		return handlers.Skip(*cmd.Skip)
	case TypeUnskip:
		if handlers.Unskip == nil {
			return Result{}, missingHandler("unskip")
		}
		return handlers.Unskip(*cmd.Unskip)
	case TypePause:
		if handlers.Pause == nil {
			return Result{}, missingHandler("pause")
		}
		return handlers.Pause(*cmd.Pause)
	case TypeRemove:
		if handlers.Remove == nil {
			return Result{}, missingHandler("remove")
		}
		return handlers.Remove(*cmd.Remove)
	case TypeHistory:
		if handlers.History == nil {
			return Result{}, missingHandler("history")
		}
		return handlers.History(*cmd.History)
	default:
		return Result{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unknown command type: %s", cmd.Type)}
	}
}

func missingHandler(name string) error {
	return &CommandError{Code: ErrCodeHandlerMissing, Message: name + " handler not configured"}
}

// Package commands parses the palette grammar: a leading verb followed by a
// target (a reminder id or "selected") or free text. Parsing never touches
// reminder state; handlers do.
package commands

import (
	"fmt"
	"strconv"
	"strings"
)

type Type string

const (
	TypeAdd     Type = "add"
	TypeDone    Type = "done"
	TypeUndone  Type = "undone"
	TypeSkip    Type = "skip"
	TypeUnskip  Type = "unskip"
	TypePause   Type = "pause"
	TypeRemove  Type = "remove"
	TypeHistory Type = "history"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Title string
}

// TargetArgs names the reminder a verb acts on: an id, or "selected" for the
// reminder under the cursor.
type TargetArgs struct {
	Target string
}

type HistoryArgs struct {
	Days int
}

type Command struct {
	Type    Type
	Raw     string
	Add     *AddArgs
	Done    *TargetArgs
	Undone  *TargetArgs
	Skip    *TargetArgs
	Unskip  *TargetArgs
	Pause   *TargetArgs
	Remove  *TargetArgs
	History *HistoryArgs
}

func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseTarget(input, TypeDone, args)
	case TypeUndone:
		return parseTarget(input, TypeUndone, args)
	case TypeSkip:
		return parseTarget(input, TypeSkip, args)
	case TypeUnskip:
		return parseTarget(input, TypeUnskip, args)
	case TypePause:
		return parseTarget(input, TypePause, args)
	case TypeRemove:
		return parseTarget(input, TypeRemove, args)
	case TypeHistory:
		return parseHistory(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Title: title}}, nil
}

func parseTarget(raw string, verb Type, args []string) (Command, error) {
	target := "selected"
	if len(args) > 0 {
		target = strings.TrimSpace(args[0])
	}
	if target == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires a target", verb)}
	}
	cmd := Command{Type: verb, Raw: raw}
	targs := &TargetArgs{Target: target}
	switch verb {
	case TypeDone:
		cmd.Done = targs
	case TypeUndone:
		cmd.Undone = targs
	case TypeSkip:
		cmd.Skip = targs
	case TypeUnskip:
		cmd.Unskip = targs
	case TypePause:
		cmd.Pause = targs
	case TypeRemove:
		cmd.Remove = targs
	}
	return cmd, nil
}

func parseHistory(raw string, args []string) (Command, error) {
	days := 7
	if len(args) > 0 {
		parsed, err := strconv.Atoi(args[0])
		if err != nil || parsed <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "history takes a positive day count"}
		}
		days = parsed
	}
	return Command{Type: TypeHistory, Raw: raw, History: &HistoryArgs{Days: days}}, nil
}

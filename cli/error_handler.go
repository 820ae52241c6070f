package cli

import (
	"fmt"
	"io"

	"github.com/grovetools/treestate/errors"
)

// ErrorHandler turns errors into user-facing messages.
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates an error handler writing to out.
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "Configuration not found. Create a treestate.yml or pass --config.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "Configuration is invalid:\n%s\n", message(err))
		fmt.Fprintf(h.Out, "Run 'treestate schema' to see the accepted fields.\n")

	case errors.ErrCodeScriptInvalid:
		if se, ok := err.(*errors.StoreError); ok && se.Details["path"] != "" {
			fmt.Fprintf(h.Out, "Replay script %v is invalid:\n", se.Details["path"])
		}
		fmt.Fprintf(h.Out, "%s\n", message(err))

	case errors.ErrCodeUnknownKey:
		fmt.Fprintf(h.Out, "%s\n", message(err))

	default:
		fmt.Fprintf(h.Out, "Error: %v\n", err)
	}

	if h.Verbose {
		if se, ok := err.(*errors.StoreError); ok {
			fmt.Fprintf(h.Out, "\nError details:\n%s\n", se.ToJSON())
		}
	}
	return err
}

func message(err error) string {
	if se, ok := err.(*errors.StoreError); ok {
		return se.Message
	}
	return err.Error()
}

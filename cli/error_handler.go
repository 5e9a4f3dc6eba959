package cli

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to out.
func NewErrorHandler(verbose bool, out io.Writer) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     out,
	}
}

// Handle prints a message matching the error code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	t := theme.DefaultTheme
	prefix := t.Error.Render("Error:")

	var detail *errors.Error
	stderrors.As(err, &detail)

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s settings document not found.\n", prefix)
		fmt.Fprintln(h.Out, t.Muted.Render("Pass one with --config or create clueitems.yml."))

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(h.Out, "%s invalid settings: %v\n", prefix, err)
		fmt.Fprintln(h.Out, t.Muted.Render("Run 'clueitems schema' to see the accepted settings."))

	case errors.ErrCodeProfileRead, errors.ErrCodeProfileWrite:
		location := ""
		if detail != nil {
			location = fmt.Sprint(detail.Details["location"])
		}
		fmt.Fprintf(h.Out, "%s profile %s is not usable: %v\n", prefix, location, err)

	case errors.ErrCodeFeedFailed:
		fmt.Fprintf(h.Out, "%s event feed failed: %v\n", prefix, err)

	case errors.ErrCodeEventDecode:
		fmt.Fprintf(h.Out, "%s malformed event: %v\n", prefix, err)
		fmt.Fprintln(h.Out, t.Muted.Render("Replay without --strict to skip malformed events."))

	default:
		fmt.Fprintf(h.Out, "%s %v\n", prefix, err)
	}

	if h.Verbose && detail != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", detail.ToJSON())
	}
	return err
}

package hxstore

import (
	"context"
	"errors"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxstore/lib/state"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// ToastID is the id of the element flashes are appended to.
const ToastID = "hxstore-toasts"

// FlashDismiss is the delay in milliseconds after which client script may
// remove a toast.
var FlashDismiss = 3000

// Flash is a one-time notification rendered next to an action response.
type Flash struct {
	Level   string // success, error, warning, info
	Message string
	// Field is the state key the flash is about, if any.
	Field string
}

// ErrorFlash describes an error the component's error handler swallowed.
//
// Rejected values (type and merge errors) leave the state as it was and
// become warnings. Everything else is an error. The message leads with the
// field when the error names one.
func ErrorFlash(err error) Flash {
	f := Flash{Level: FlashError, Message: err.Error()}

	var se *state.Error
	if errors.As(err, &se) && se.Err != nil {
		f.Field = se.Field
		f.Message = se.Err.Error()
		if se.Field != "" {
			f.Message = se.Field + ": " + f.Message
		}
	}
	switch state.KindOf(err) {
	case state.KindType, state.KindMerge:
		f.Level = FlashWarning
	}
	return f
}

// RenderFlashesOOB renders flashes as an out-of-band swap that appends to
// the ToastID element.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="` + ToastID + `" hx-swap-oob="beforeend">`)
	for _, f := range flashes {
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(html.EscapeString(f.Level))
		sb.WriteString(`"`)
		if f.Field != "" {
			sb.WriteString(` data-field="`)
			sb.WriteString(html.EscapeString(f.Field))
			sb.WriteString(`"`)
		}
		sb.WriteString(` data-auto-dismiss="`)
		sb.WriteString(strconv.Itoa(FlashDismiss))
		sb.WriteString(`">`)
		sb.WriteString(html.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// ToastContainer renders the element flashes are swapped into. Place it
// once per page, typically at the end of <body>:
//
//	@hxstore.ToastContainer()
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="`+ToastID+`" class="toast-container" aria-live="polite"></div>`)
		return err
	})
}

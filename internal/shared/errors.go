package shared

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationMessage flattens validator errors into a single readable line.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msg := ""
	for i, fe := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag())
	}
	return msg
}

package errorx

import "fmt"

// Wrap annotates err with the operation name, preserving the error chain
// so errors.As/Is still see the underlying I18nError.
func Wrap(err error, op string) error {
	if err == nil {
		return nil
	}

	return fmt.Errorf("%s: %w", op, err)
}

package history

import (
	"fmt"

	tberrors "github.com/tessro/tuneboard/internal/errors"
)

// StoreError reports that the history log could not be read, parsed or
// written. A StoreError from Load never means "empty log".
type StoreError struct {
	Op   string // "read", "parse" or "write"
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrHistoryStore.
func (e *StoreError) Is(target error) bool {
	return target == tberrors.ErrHistoryStore
}

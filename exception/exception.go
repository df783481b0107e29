package exception

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/sultan-labs/sultan-go/logx"
)

// Recovered logs a recovered panic value with its stack and returns it as
// an error. It returns nil when r is nil.
func Recovered(name string, r interface{}) error {
	if r == nil {
		return nil
	}
	err := fmt.Errorf("panic in %s: %v", name, r)
	logx.Error("PANIC", err.Error(), "\n", string(debug.Stack()))
	return err
}

// ExitOnPanic must be deferred. It logs a panic and exits with status 1.
func ExitOnPanic(name string) {
	if r := recover(); r != nil {
		_ = Recovered(name, r)
		os.Exit(1)
	}
}

// SafeGo runs fn in a goroutine and sends a panic, as an error, to errs.
// errs may be nil.
func SafeGo(name string, fn func(), errs chan<- error) {
	go func() {
		defer func() {
			if err := Recovered(name, recover()); err != nil && errs != nil {
				errs <- err
			}
		}()
		fn()
	}()
}

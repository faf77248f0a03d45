package calib

import "fmt"

// FatalError is a caller programming error in configuring the calibration
// context. It is raised with panic and is not meant to be recovered from in
// production code.
type FatalError struct {
	Op  string
	Msg string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("calib: %s: %s", e.Op, e.Msg)
}

// fatalf logs the error on the ops stream and panics with it.
func fatalf(op, format string, args ...interface{}) {
	err := &FatalError{Op: op, Msg: fmt.Sprintf(format, args...)}
	Opsf("FATAL %v", err)
	panic(err)
}

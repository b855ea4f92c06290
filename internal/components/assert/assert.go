// Package assert holds precondition checks for constructors. A failed check is a
// programming error, so these panic instead of returning errors.
package assert

import "fmt"

func NotNil(name string, value any) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
}

func NotEmptyStr(name, str string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be non-empty", name))
	}
}

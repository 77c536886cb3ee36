package repl

import (
	"github.com/ezrec/unib/translate"
)

var f = translate.From

type ErrUnknownCommand string

func (err ErrUnknownCommand) Error() string {
	return f("unknown command '%v'", string(err))
}

type ErrUnknownView string

func (err ErrUnknownView) Error() string {
	return f("unknown view '%v' (want full, dot, or both)", string(err))
}

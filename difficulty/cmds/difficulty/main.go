package main

import (
	"github.com/kiteco/cefr/golib/cmdline"
)

func main() {
	cmdline.MustDispatch(neuralCmd, treeCmd)
}

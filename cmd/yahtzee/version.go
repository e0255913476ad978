package main

import (
	"fmt"
	"runtime"
)

// VersionCmd prints build information
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("yahtzee %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

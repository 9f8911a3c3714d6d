// Copyright © 2026 The jank authors

package main

import "github.com/jank-lang/jank-sub005/cmd"

func main() {
	cmd.Execute()
}

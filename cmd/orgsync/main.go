// Copyright © 2026 One Concern

package main

import (
	"github.com/oneconcern/orgsync/cmd/orgsync/cmd"
)

func main() {
	cmd.Execute()
}

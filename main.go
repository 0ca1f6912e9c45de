package main

import (
	"github.com/AzielCF/wap-gatekeeper/cmd"
)

func main() {
	cmd.Execute()
}

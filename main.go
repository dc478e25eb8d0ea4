/*
Package main
File: main.go
Description:
    The entry point. Orchestration, routing, and lifecycle handling now
    live in cmd/ (serve/validate-economy/migrate-save); main.go only
    dispatches into the cobra root command.
*/

package main

import "github.com/everforgeworks/supplyline-core/cmd"

func main() {
	cmd.Execute()
}

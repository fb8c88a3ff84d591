package main

import "github.com/MisterPotz/eclipse-vscode-light-converter/internal/cli"

func main() {
	cli.Execute()
}

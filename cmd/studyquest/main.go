package main

import "github.com/studyquest/studyquest/internal/cli"

func main() {
	cli.Execute()
}

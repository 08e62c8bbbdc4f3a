package main

import "github.com/Lernify-co/moodle-parser-LNU/cmd"

func main() {
	cmd.Execute()
}

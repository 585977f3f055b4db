package main

import "github.com/keyhunt/keyhunt/cmd/keyhunt"

func main() { keyhunt.Execute() }

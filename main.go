/*
Copyright © 2025 Yuhan Bo
*/
package main

import "github.com/yuhanbo/pomotask/cmd"

func main() {
	cmd.Execute()
}

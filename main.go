/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "raydium-bot/cmd"

func main() {
	cmd.Execute()
}

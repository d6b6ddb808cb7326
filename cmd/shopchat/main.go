package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "shopchat",
		Short: "Conversational shopping assistant",
		Long: `shopchat answers customer messages for an online store: product search,
cart management and checkout links, one conversation per session id.

  shopchat serve   Start the HTTP API (POST /chat webhook)
  shopchat chat    Talk to the assistant from the terminal`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(chatCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

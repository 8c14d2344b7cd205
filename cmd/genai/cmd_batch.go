package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/genai/core/client"
	"github.com/leofalp/genai/providers/ai"
)

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("max-concurrent", client.DefaultMaxConcurrent, "maximum concurrent requests")
	batchCmd.Flags().Bool("return-errors", false, "record per-item errors instead of stopping at the first failure")
	batchCmd.Flags().String("file", "-", "file with one prompt per line, or - for stdin")
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run a batch of prompts with bounded concurrency",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		maxConcurrent, _ := cmd.Flags().GetInt("max-concurrent")
		returnErrors, _ := cmd.Flags().GetBool("return-errors")
		file, _ := cmd.Flags().GetString("file")

		prompts, err := readPrompts(file)
		if err != nil {
			return err
		}
		requests := make([]ai.Request, len(prompts))
		for i, prompt := range prompts {
			requests[i] = ai.Request{Prompt: prompt}
		}

		c, err := buildClient()
		if err != nil {
			return err
		}

		results, err := c.BatchText(cmd.Context(), requests, client.BatchOptions{
			MaxConcurrent: maxConcurrent,
			ReturnErrors:  returnErrors,
		})
		if err != nil {
			return err
		}

		for _, result := range results {
			if result.Err != nil {
				fmt.Fprintf(os.Stdout, "[%d] ERROR: %v\n", result.Index, result.Err)
				continue
			}
			fmt.Fprintf(os.Stdout, "[%d] %s\n", result.Index, result.Response.Text)
		}
		return nil
	},
}

func readPrompts(file string) ([]string, error) {
	reader := os.Stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		reader = f
	}

	var prompts []string
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			prompts = append(prompts, line)
		}
	}
	return prompts, scanner.Err()
}

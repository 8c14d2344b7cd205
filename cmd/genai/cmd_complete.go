package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leofalp/genai/internal/jsonschema"
	"github.com/leofalp/genai/providers/ai"
)

func init() {
	rootCmd.AddCommand(completeCmd, chatCmd, streamCmd)

	for _, cmd := range []*cobra.Command{completeCmd, chatCmd, streamCmd} {
		cmd.Flags().Int("max-tokens", 0, "maximum completion tokens")
		cmd.Flags().Float32("temperature", 0, "sampling temperature")
		cmd.Flags().String("system", "", "system prompt")
		cmd.Flags().String("json-schema", "", "JSON Schema file the reply must conform to")
	}
}

func requestFromFlags(cmd *cobra.Command) (ai.Request, error) {
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")
	temperature, _ := cmd.Flags().GetFloat32("temperature")
	system, _ := cmd.Flags().GetString("system")
	request := ai.Request{
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		SystemPrompt: system,
	}

	schemaPath, _ := cmd.Flags().GetString("json-schema")
	if schemaPath != "" {
		data, err := os.ReadFile(schemaPath)
		if err != nil {
			return ai.Request{}, fmt.Errorf("reading schema file: %w", err)
		}
		schema, err := jsonschema.FromJSON(data)
		if err != nil {
			return ai.Request{}, err
		}
		request.GuidedSchema = schema
	}
	return request, nil
}

var completeCmd = &cobra.Command{
	Use:   "complete [prompt]",
	Short: "Generate a text completion for a prompt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}

		request, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		request.Prompt = args[0]

		response, err := c.CompleteText(cmd.Context(), request)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, response.Text)
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Send a single chat message and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}

		request, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		request.Messages = []ai.Message{{Role: ai.RoleUser, Content: args[0]}}

		response, err := c.CompleteChat(cmd.Context(), request)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, response.Text)
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream [message]",
	Short: "Stream a chat reply token by token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := buildClient()
		if err != nil {
			return err
		}

		request, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		request.Messages = []ai.Message{{Role: ai.RoleUser, Content: args[0]}}

		stream, err := c.StreamChat(cmd.Context(), request)
		if err != nil {
			return err
		}

		for event, err := range stream.Iter() {
			if err != nil {
				fmt.Fprintln(os.Stdout)
				return err
			}
			if event.Type == ai.StreamEventContent {
				fmt.Fprint(os.Stdout, event.Content)
			}
		}
		fmt.Fprintln(os.Stdout)
		return nil
	},
}

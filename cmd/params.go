package cmd

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/s0up4200/listonce/listonce"
)

// parseParams turns repeated key=value flags into query parameters.
func parseParams(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter '%s': must be key=value", pair)
		}
		params.Add(key, value)
	}
	return params, nil
}

// parseID parses a positional numeric identifier.
func parseID(kind, arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s '%s': must be a positive integer", kind, arg)
	}
	return id, nil
}

// selectEntities applies the filter named by, or written in, expression.
// An empty expression keeps every entity.
func selectEntities(ctx context.Context, expression string, entities []*listonce.Entity) ([]*listonce.Entity, error) {
	if expression == "" {
		return entities, nil
	}

	f, err := filters.Resolve(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid filter expression: %w", err)
	}

	logger.Debug().Str("filter", f.Expression()).Int("entities", len(entities)).Msg("Applying filter")
	return evaluator.Evaluate(ctx, f, entities)
}

// confirm asks a yes/no question on stdin. assumeYes skips the prompt.
func confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	fmt.Printf("%s [y/N]: ", question)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return false, fmt.Errorf("failed to read input: %w", err)
		}
		// No input (Ctrl+D or similar)
		return false, nil
	}
	return strings.EqualFold(strings.TrimSpace(scanner.Text()), "y"), nil
}

// printResult prints the payload returned by a mutating call.
func printResult(action string, payload any) error {
	if printer.json {
		return printer.Value(payload)
	}
	fmt.Printf("✓ %s\n", action)
	if payload != nil {
		return printer.Value(payload)
	}
	return nil
}

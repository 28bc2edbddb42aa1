package ukcgt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeCorporateActions reads corporate actions in JSONL format, as written by EncodeCorporateActions.
func DecodeCorporateActions(r io.Reader) ([]CorporateAction, error) {
	var actions []CorporateAction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var a CorporateAction
		if err := json.Unmarshal(scanner.Bytes(), &a); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		actions = append(actions, a)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading corporate actions: %w", err)
	}
	return actions, nil
}

// EncodeCorporateActions writes actions in JSONL format.
func EncodeCorporateActions(w io.Writer, actions []CorporateAction) error {
	for _, a := range actions {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("failed to marshal corporate action: %w", err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write corporate action: %w", err)
		}
	}
	return nil
}

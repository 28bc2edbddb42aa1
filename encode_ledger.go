package ukcgt

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeLedger decodes a stream of JSONL data from an io.Reader, one
// transaction or corporate action per line, and returns a sorted Ledger.
//
// Transactions are numbered by their line, so that the recorded order of
// transactions on the same day is kept through matching.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command in %q: %w", line, string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdBuy:
			var tx Acquisition
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tx.Seq = line
			ledger.Append(tx)
		case CmdSell:
			var tx Disposal
			if err := json.Unmarshal(lineBytes, &tx); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			tx.Seq = line
			ledger.Append(tx)
		case CmdSplit, CmdConsolidation, CmdSpinOff:
			var a CorporateAction
			if err := json.Unmarshal(lineBytes, &a); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			ledger.AppendActions(a)
		default:
			return nil, fmt.Errorf("line %d: unknown command: %q", line, identifier.Command)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	ledger.stableSort()
	return ledger, nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger sorts the ledger and writes it to w in JSONL format: the
// corporate actions first, then the transactions.
//
// The sort is stable, transactions on the same day keep their relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	if err := EncodeCorporateActions(w, ledger.actions); err != nil {
		return err
	}
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

package parser

import (
	"encoding/json"
	"errors"
	"fmt"

	"raydium-bot/internal/solparser/parser/coder"

	"github.com/gagliardetto/solana-go/rpc"

	"strings"
)

func (s *SolParser) parseInstruction(ix *rpc.ParsedInstruction) ([]byte, error) {
	if ix == nil {
		return nil, errors.New("parsed instruction is nil")
	}

	if ix.Parsed == nil && len(ix.Data) == 0 {
		return nil, errors.New("instruction has no parseable data")
	}

	if ix.Data == nil {
		return ix.Parsed.MarshalJSON()
	}
	return ix.Data, nil
}

// ParseTokenTransfer decodes an inner instruction into a token transfer.
// transferChecked forms are normalized into the plain transfer shape. A
// system transfer unmarshals with an empty Amount because it carries
// lamports instead; callers skip those.
func (s *SolParser) ParseTokenTransfer(ix *rpc.ParsedInstruction) (*coder.TokenTransfer, error) {
	byteMsg, err := s.parseInstruction(ix)
	if err != nil {
		return nil, fmt.Errorf("parsing instruction: %w", err)
	}

	msgStr := string(byteMsg)
	if strings.Contains(msgStr, "transferChecked") {
		checked := &coder.TokenTransferChecked{}
		if err := json.Unmarshal(byteMsg, checked); err != nil {
			return nil, fmt.Errorf("unmarshaling checked transfer: %w", err)
		}
		if checked.InstructionType != "transferChecked" {
			return nil, fmt.Errorf("not a transfer instruction: %s", checked.InstructionType)
		}
		transfer := &coder.TokenTransfer{InstructionType: "transfer"}
		transfer.Info.Amount = checked.Info.TokenAmount.Amount
		transfer.Info.Authority = checked.Info.Authority
		transfer.Info.Destination = checked.Info.Destination
		transfer.Info.Source = checked.Info.Source
		return transfer, nil
	}

	if strings.Contains(msgStr, "transfer") {
		transfer := &coder.TokenTransfer{}
		if err := json.Unmarshal(byteMsg, transfer); err != nil {
			return nil, fmt.Errorf("unmarshaling transfer: %w", err)
		}
		if transfer.InstructionType != "transfer" {
			return nil, fmt.Errorf("not a transfer instruction: %s", transfer.InstructionType)
		}
		return transfer, nil
	}

	return nil, fmt.Errorf("not a transfer instruction: program %s", ix.ProgramId.String())
}

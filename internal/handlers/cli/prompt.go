// Package cli implements the interactive terminal surface: prompts for the
// API key, token addresses and output destination, plus progress reporting.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/pkg/utils"
)

// Prompter reads interactive answers from in and writes prompts to out.
// The streams are injected so the flow is unit-testable.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Line prints the label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question; only "yes" or "y" count as confirmation.
func (p *Prompter) Confirm(label string) (bool, error) {
	answer, err := p.Line(label)
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "yes" || answer == "y", nil
}

// APIKey resolves the key to use. When a saved key exists the user may reuse
// it; otherwise a new key is requested. isNew reports whether the returned
// key should be persisted.
func (p *Prompter) APIKey(saved string) (key string, isNew bool, err error) {
	if saved != "" {
		fmt.Fprintln(p.out, "Found saved API key")
		useSaved, err := p.Confirm("Use saved API key? (yes/no): ")
		if err != nil {
			return "", false, err
		}
		if useSaved {
			fmt.Fprintln(p.out, "Using saved API key.")
			return saved, false, nil
		}
	} else {
		fmt.Fprintln(p.out, "STEP 1: Bitquery API Key")
	}

	key, err = p.Line("\nEnter your Bitquery API key: ")
	if err != nil {
		return "", false, err
	}
	if key == "" {
		return "", false, fmt.Errorf("API key cannot be empty")
	}
	return key, true, nil
}

// TokenAddresses collects one or more Solana mint addresses. The first one is
// required; further addresses (for common-buyer analysis) are collected until
// a blank line. Invalid addresses are rejected with a reprompt.
func (p *Prompter) TokenAddresses() ([]string, error) {
	fmt.Fprintln(p.out, "STEP 2: Token Contract Address")
	fmt.Fprintln(p.out, strings.Repeat("-", 70))
	fmt.Fprintln(p.out, "Enter the Solana token contract address")

	first, err := p.validAddress("\nEnter token address: ")
	if err != nil {
		return nil, err
	}

	tokens := []string{first}
	seen := map[string]struct{}{first: {}}

	fmt.Fprintln(p.out, "\nAdd more token addresses for common-buyer analysis (blank line to continue)")
	for {
		addr, err := p.Line("Enter additional token address: ")
		if err != nil {
			return nil, err
		}
		if addr == "" {
			break
		}
		if !utils.IsValidTokenAddress(addr) {
			fmt.Fprintln(p.out, "Invalid Solana token address, try again.")
			continue
		}
		if _, dup := seen[addr]; dup {
			fmt.Fprintln(p.out, "Address already entered.")
			continue
		}
		seen[addr] = struct{}{}
		tokens = append(tokens, addr)
	}

	return tokens, nil
}

// OutputDir asks for the output destination, defaulting to def on blank input.
func (p *Prompter) OutputDir(def string) (string, error) {
	dir, err := p.Line(fmt.Sprintf("\nOutput directory [%s]: ", def))
	if err != nil {
		return "", err
	}
	if dir == "" {
		return def, nil
	}
	return dir, nil
}

func (p *Prompter) validAddress(label string) (string, error) {
	for {
		addr, err := p.Line(label)
		if err != nil {
			return "", err
		}
		if addr == "" {
			return "", fmt.Errorf("token address cannot be empty")
		}
		if utils.IsValidTokenAddress(addr) {
			return addr, nil
		}
		fmt.Fprintln(p.out, "Invalid Solana token address, try again.")
	}
}

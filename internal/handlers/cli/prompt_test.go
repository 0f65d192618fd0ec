package cli_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/handlers/cli"
)

const (
	solMint  = "So11111111111111111111111111111111111111112"
	usdcMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
)

func newPrompter(input string) (*cli.Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return cli.NewPrompter(strings.NewReader(input), out), out
}

func TestAPIKeyUsesSavedOnConfirm(t *testing.T) {
	p, _ := newPrompter("yes\n")

	key, isNew, err := p.APIKey("saved-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "saved-key" || isNew {
		t.Errorf("expected saved key reused, got key=%q isNew=%v", key, isNew)
	}
}

func TestAPIKeyRejectedSavedPromptsForNew(t *testing.T) {
	p, _ := newPrompter("no\nfresh-key\n")

	key, isNew, err := p.APIKey("saved-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key != "fresh-key" || !isNew {
		t.Errorf("expected fresh key flagged for saving, got key=%q isNew=%v", key, isNew)
	}
}

func TestAPIKeyEmptyIsError(t *testing.T) {
	p, _ := newPrompter("\n")

	if _, _, err := p.APIKey(""); err == nil {
		t.Error("expected an error for an empty API key")
	}
}

func TestTokenAddressesSingle(t *testing.T) {
	p, _ := newPrompter(solMint + "\n\n")

	tokens, err := p.TokenAddresses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != solMint {
		t.Errorf("expected [%s], got %v", solMint, tokens)
	}
}

func TestTokenAddressesMultiple(t *testing.T) {
	p, _ := newPrompter(solMint + "\n" + usdcMint + "\n\n")

	tokens, err := p.TokenAddresses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 || tokens[1] != usdcMint {
		t.Errorf("expected two tokens, got %v", tokens)
	}
}

func TestTokenAddressesRepromptsOnInvalid(t *testing.T) {
	p, out := newPrompter("not-a-mint\n" + solMint + "\n\n")

	tokens, err := p.TokenAddresses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != solMint {
		t.Errorf("expected the valid retry to be accepted, got %v", tokens)
	}
	if !strings.Contains(out.String(), "Invalid Solana token address") {
		t.Error("expected an invalid-address message before the reprompt")
	}
}

func TestTokenAddressesSkipsDuplicates(t *testing.T) {
	p, out := newPrompter(solMint + "\n" + solMint + "\n" + usdcMint + "\n\n")

	tokens, err := p.TokenAddresses()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("expected the duplicate to be dropped, got %v", tokens)
	}
	if !strings.Contains(out.String(), "already entered") {
		t.Error("expected a duplicate-address message")
	}
}

func TestConfirm(t *testing.T) {
	for input, want := range map[string]bool{
		"yes\n": true,
		"y\n":   true,
		"Y\n":   true,
		"no\n":  false,
		"\n":    false,
		"ok\n":  false,
	} {
		p, _ := newPrompter(input)
		got, err := p.Confirm("Proceed? ")
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", input, err)
		}
		if got != want {
			t.Errorf("Confirm with input %q = %v, want %v", input, got, want)
		}
	}
}

func TestOutputDirDefault(t *testing.T) {
	p, _ := newPrompter("\n")

	dir, err := p.OutputDir("solana_buys_export")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "solana_buys_export" {
		t.Errorf("expected the default directory, got %q", dir)
	}
}

func TestOutputDirCustom(t *testing.T) {
	p, _ := newPrompter("my_exports\n")

	dir, err := p.OutputDir("solana_buys_export")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != "my_exports" {
		t.Errorf("expected the entered directory, got %q", dir)
	}
}

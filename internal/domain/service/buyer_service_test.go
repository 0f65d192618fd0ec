package service_test

import (
	"reflect"
	"testing"

	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/model"
	"github.com/WillzyDollarrzz/solana-token-buy-transactions-exporter/internal/domain/service"
)

func set(wallets ...string) model.BuyerSet {
	s := make(model.BuyerSet, len(wallets))
	for _, w := range wallets {
		s[w] = struct{}{}
	}
	return s
}

func TestBuildIndex(t *testing.T) {
	svc := service.NewBuyerService()

	trades := []*model.BuyTrade{
		{ID: "1", Buyer: "alice", PaidUSD: 100},
		{ID: "2", Buyer: "bob", PaidUSD: 50},
		{ID: "3", Buyer: "alice", PaidUSD: 25},
		nil,
		{ID: "4", Buyer: ""},
	}

	index := svc.BuildIndex(trades)

	if len(index) != 2 {
		t.Fatalf("expected 2 buyers, got %d", len(index))
	}
	alice := index["alice"]
	if alice.Buys != 2 {
		t.Errorf("expected alice to have 2 buys, got %d", alice.Buys)
	}
	if alice.TotalUSD != 125 {
		t.Errorf("expected alice total USD 125, got %f", alice.TotalUSD)
	}
	if bob := index["bob"]; bob.Buys != 1 || bob.TotalUSD != 50 {
		t.Errorf("unexpected stats for bob: %+v", bob)
	}
}

func TestIntersectCommutative(t *testing.T) {
	svc := service.NewBuyerService()

	a := set("alice", "bob", "carol")
	b := set("bob", "carol", "dave")

	ab := svc.Intersect(a, b)
	ba := svc.Intersect(b, a)

	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("intersection is not commutative: %v vs %v", ab, ba)
	}
	if !reflect.DeepEqual(ab, set("bob", "carol")) {
		t.Errorf("expected {bob, carol}, got %v", ab)
	}
}

func TestIntersectIdempotent(t *testing.T) {
	svc := service.NewBuyerService()

	a := set("alice", "bob")
	if got := svc.Intersect(a, a); !reflect.DeepEqual(got, a) {
		t.Errorf("expected intersect(A,A) == A, got %v", got)
	}
}

func TestIntersectDisjoint(t *testing.T) {
	svc := service.NewBuyerService()

	a := set("alice", "bob")
	b := set("carol", "dave")

	got := svc.Intersect(a, b)
	if len(got) != 0 {
		t.Errorf("expected empty intersection, got %v", got)
	}
}

func TestIntersectThreeSets(t *testing.T) {
	svc := service.NewBuyerService()

	got := svc.Intersect(
		set("alice", "bob", "carol"),
		set("alice", "carol"),
		set("carol", "dave", "alice"),
	)
	if !reflect.DeepEqual(got, set("alice", "carol")) {
		t.Errorf("expected {alice, carol}, got %v", got)
	}
}

func TestCommonBuyers(t *testing.T) {
	svc := service.NewBuyerService()

	indexA := model.BuyerIndex{
		"alice": {Wallet: "alice", Buys: 3, TotalUSD: 300},
		"bob":   {Wallet: "bob", Buys: 1, TotalUSD: 10},
	}
	indexB := model.BuyerIndex{
		"alice": {Wallet: "alice", Buys: 2, TotalUSD: 200},
		"bob":   {Wallet: "bob", Buys: 5, TotalUSD: 50},
		"carol": {Wallet: "carol", Buys: 1, TotalUSD: 5},
	}

	buyers := svc.CommonBuyers([]model.BuyerIndex{indexA, indexB})

	if len(buyers) != 2 {
		t.Fatalf("expected 2 common buyers, got %d", len(buyers))
	}
	// bob has 6 total buys, alice 5, so bob sorts first
	if buyers[0].Wallet != "bob" || buyers[0].TotalBuys != 6 || buyers[0].TotalUSD != 60 {
		t.Errorf("unexpected first buyer: %+v", buyers[0])
	}
	if buyers[1].Wallet != "alice" || buyers[1].TotalBuys != 5 || buyers[1].TotalUSD != 500 {
		t.Errorf("unexpected second buyer: %+v", buyers[1])
	}
	for _, b := range buyers {
		if b.TokensBought != 2 {
			t.Errorf("expected TokensBought == 2 for %s, got %d", b.Wallet, b.TokensBought)
		}
	}
}

func TestCommonBuyersDisjoint(t *testing.T) {
	svc := service.NewBuyerService()

	indexA := model.BuyerIndex{
		"alice": {Wallet: "alice", Buys: 1},
		"bob":   {Wallet: "bob", Buys: 1},
	}
	indexB := model.BuyerIndex{
		"carol": {Wallet: "carol", Buys: 1},
		"dave":  {Wallet: "dave", Buys: 1},
	}

	buyers := svc.CommonBuyers([]model.BuyerIndex{indexA, indexB})
	if len(buyers) != 0 {
		t.Errorf("expected no common buyers, got %v", buyers)
	}
}

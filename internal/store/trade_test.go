package store

import (
	"testing"
	"time"

	"github.com/mfernandes/stockmatch/internal/domain"
)

func newTestTrade(id, buyID, sellID string) *domain.Trade {
	return &domain.Trade{
		TradeID:     id,
		BuyOrderID:  buyID,
		SellOrderID: sellID,
		Symbol:      "XYZ",
		Quantity:    10,
		Price:       4900,
		ExecutedAt:  time.Now(),
	}
}

func TestTradeStore_Append_and_GetBySymbol(t *testing.T) {
	s := NewTradeStore()
	s.Append(newTestTrade("trade-1", "buy-1", "sell-1"))
	s.Append(newTestTrade("trade-2", "buy-2", "sell-1"))

	trades := s.GetBySymbol("XYZ")
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].TradeID != "trade-1" {
		t.Errorf("expected chronological order, got %s first", trades[0].TradeID)
	}
}

func TestTradeStore_GetBySymbol_Empty(t *testing.T) {
	s := NewTradeStore()

	trades := s.GetBySymbol("NOPE")
	if trades == nil || len(trades) != 0 {
		t.Fatalf("expected empty slice, got %v", trades)
	}
}

func TestTradeStore_GetBySymbol_ReturnsCopy(t *testing.T) {
	s := NewTradeStore()
	s.Append(newTestTrade("trade-1", "buy-1", "sell-1"))

	trades := s.GetBySymbol("XYZ")
	trades[0] = nil

	again := s.GetBySymbol("XYZ")
	if again[0] == nil {
		t.Fatal("mutating the returned slice must not affect the store")
	}
}

func TestTradeStore_GetByOrder_BothSides(t *testing.T) {
	s := NewTradeStore()
	s.Append(newTestTrade("trade-1", "buy-1", "sell-1"))
	s.Append(newTestTrade("trade-2", "buy-2", "sell-1"))
	s.Append(newTestTrade("trade-3", "buy-2", "sell-2"))

	if got := s.GetByOrder("XYZ", "sell-1"); len(got) != 2 {
		t.Fatalf("expected 2 trades for sell-1, got %d", len(got))
	}
	if got := s.GetByOrder("XYZ", "buy-2"); len(got) != 2 {
		t.Fatalf("expected 2 trades for buy-2, got %d", len(got))
	}
	if got := s.GetByOrder("XYZ", "buy-9"); len(got) != 0 {
		t.Fatalf("expected no trades for buy-9, got %d", len(got))
	}
}

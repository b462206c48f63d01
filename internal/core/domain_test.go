package core

import (
	"testing"
	"time"
)

func TestTransactionTypeSignedCents(t *testing.T) {
	amount := Money{Cents: 500}
	cases := []struct {
		typ  TransactionType
		want int64
	}{
		{TypeIncome, 500},
		{TypeExpense, -500},
		{TypeTransfer, 0},
	}
	for _, tc := range cases {
		if got := tc.typ.SignedCents(amount); got != tc.want {
			t.Fatalf("%s: got %d, want %d", tc.typ, got, tc.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-15" {
		t.Fatalf("round trip: got %s", d)
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Fatal("expected error for wrong format")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		AccountID: 1,
		Date:      NewDate(2024, 1, 1),
		Type:      TypeIncome,
		Amount:    Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Transaction{
		{AccountID: 0, Date: NewDate(2024, 1, 1), Type: TypeIncome, Amount: Money{Cents: 100}},
		{AccountID: 1, Date: Date{Time: time.Time{}}, Type: TypeIncome, Amount: Money{Cents: 100}},
		{AccountID: 1, Date: NewDate(2024, 1, 1), Type: "pending", Amount: Money{Cents: 100}},
		{AccountID: 1, Date: NewDate(2024, 1, 1), Type: TypeExpense, Amount: Money{Cents: 0}},
		{AccountID: 1, Date: NewDate(2024, 1, 1), Type: TypeExpense, Amount: Money{Cents: -5}},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	good := Account{Name: "Checking", CategoryID: 1}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Account{Name: "  ", CategoryID: 1}).Validate(); err == nil {
		t.Fatal("expected error for blank name")
	}
	if err := (Account{Name: "Checking"}).Validate(); err == nil {
		t.Fatal("expected error for missing category")
	}
}

func TestAssetTypeValidate(t *testing.T) {
	for _, at := range AssetTypes() {
		if err := at.Validate(); err != nil {
			t.Fatalf("%s: expected ok, got %v", at, err)
		}
	}
	if err := AssetType("crypto").Validate(); err == nil {
		t.Fatal("expected error for unknown asset type")
	}
}

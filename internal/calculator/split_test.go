package calculator

import (
	"errors"
	"testing"

	"expensetracker/internal/models"
	"expensetracker/internal/money"
)

func TestEqualShares(t *testing.T) {
	tests := []struct {
		name    string
		total   money.Money
		members []string
		want    []money.Money
		wantErr bool
	}{
		{
			name:    "exact three-way split",
			total:   12000, // $120.00
			members: []string{"alice", "bob", "charlie"},
			want:    []money.Money{4000, 4000, 4000},
		},
		{
			name:    "remainder goes to leading members",
			total:   1000, // $10.00 among 3
			members: []string{"alice", "bob", "charlie"},
			want:    []money.Money{334, 333, 333},
		},
		{
			name:    "two members",
			total:   901,
			members: []string{"alice", "bob"},
			want:    []money.Money{451, 450},
		},
		{
			name:    "no members errors",
			total:   1000,
			members: nil,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shares, err := EqualShares(tt.total, tt.members)
			if (err != nil) != tt.wantErr {
				t.Fatalf("EqualShares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			var sum money.Money
			for i, share := range shares {
				if share.UserID != tt.members[i] {
					t.Errorf("share %d user = %s, want %s", i, share.UserID, tt.members[i])
				}
				if share.Amount != tt.want[i] {
					t.Errorf("share %d amount = %d, want %d", i, share.Amount, tt.want[i])
				}
				sum += share.Amount
			}
			if sum != tt.total {
				t.Errorf("shares sum to %d, want %d", sum, tt.total)
			}
		})
	}
}

func TestCustomShares(t *testing.T) {
	members := []string{"alice", "bob", "charlie"}

	t.Run("exact sum succeeds", func(t *testing.T) {
		// $120 as [$50, $40, $30]
		shares, err := CustomShares(12000, members, map[string]money.Money{
			"alice":   5000,
			"bob":     4000,
			"charlie": 3000,
		})
		if err != nil {
			t.Fatalf("CustomShares failed: %v", err)
		}
		if len(shares) != 3 {
			t.Fatalf("got %d shares, want 3", len(shares))
		}
		if shares[0].Amount != 5000 || shares[1].Amount != 4000 || shares[2].Amount != 3000 {
			t.Errorf("unexpected amounts: %v", shares)
		}
	})

	t.Run("mismatched sum fails", func(t *testing.T) {
		// $120 as [$50, $40, $20]
		_, err := CustomShares(12000, members, map[string]money.Money{
			"alice":   5000,
			"bob":     4000,
			"charlie": 2000,
		})
		if !errors.Is(err, models.ErrSplitMismatch) {
			t.Fatalf("error = %v, want ErrSplitMismatch", err)
		}
	})

	t.Run("non-member fails", func(t *testing.T) {
		_, err := CustomShares(12000, members, map[string]money.Money{
			"alice": 6000,
			"mal":   6000,
		})
		if !errors.Is(err, models.ErrNotAMember) {
			t.Fatalf("error = %v, want ErrNotAMember", err)
		}
	})

	t.Run("omitted members get zero share", func(t *testing.T) {
		shares, err := CustomShares(12000, members, map[string]money.Money{
			"alice": 7000,
			"bob":   5000,
		})
		if err != nil {
			t.Fatalf("CustomShares failed: %v", err)
		}
		if shares[2].UserID != "charlie" || shares[2].Amount != 0 {
			t.Errorf("expected zero share for charlie, got %v", shares[2])
		}
	})

	t.Run("negative share fails", func(t *testing.T) {
		_, err := CustomShares(1000, members, map[string]money.Money{
			"alice": 1500,
			"bob":   -500,
		})
		if !errors.Is(err, money.ErrInvalidAmount) {
			t.Fatalf("error = %v, want ErrInvalidAmount", err)
		}
	})
}

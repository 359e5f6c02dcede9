package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/etnz/cryptofolio"
)

const kucoinExport = `tradeCreatedAt,orderId,symbol,side,price,size,funds,fee,liquidity,feeCurrency,orderType
2023-01-02 10:00:00,k1,BTC-USDT,buy,16000,0.1,1600,1.6,taker,USDT,market
2023-02-02 10:00:00,k2,BTC-USDT,sell,23000,0.05,1150,1.15,taker,USDT,market
2023-02-03 10:00:00,k3,ETH-USDT,buy,1600,1,1600,1.6,maker,USDT,limit
`

func TestImport(t *testing.T) {
	ctx := context.Background()
	ledger := cryptofolio.NewLedger()
	n := &Kucoin{Config: cryptofolio.DefaultConfig()}

	stats, err := Import(ctx, strings.NewReader(kucoinExport), n, ledger, Options{})
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
	want := Stats{Rows: 3, Trades: 3, Inserted: 3}
	if stats != want {
		t.Errorf("Import() = %v, want %v", stats, want)
	}
	if ledger.Len() != 3 {
		t.Errorf("Len() = %d, want 3", ledger.Len())
	}

	// importing the same export again changes nothing.
	stats, err = Import(ctx, strings.NewReader(kucoinExport), n, ledger, Options{})
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
	want = Stats{Rows: 3, Trades: 3, Duplicates: 3}
	if stats != want {
		t.Errorf("second Import() = %v, want %v", stats, want)
	}
	if ledger.Len() != 3 {
		t.Errorf("Len() after second import = %d, want 3", ledger.Len())
	}
}

func TestImport_Errors(t *testing.T) {
	ctx := context.Background()
	n := &Kucoin{Config: cryptofolio.DefaultConfig()}
	badRow := strings.Replace(kucoinExport, "k2,BTC-USDT,sell,23000,0.05,1150,1.15,taker,USDT", "k2,BTC-USDT,sell,23000,0.05,1150,1.15,taker,KCS", 1)
	shortRow := strings.Replace(kucoinExport, ",maker,USDT,limit", ",maker", 1)

	tests := []struct {
		name    string
		input   string
		opts    Options
		wantErr error
		want    Stats
	}{
		{
			name:    "empty",
			input:   "",
			wantErr: ErrHeaderMismatch,
		},
		{
			name:    "other exchange",
			input:   strings.Join(gateioHeader, ",") + "\n",
			wantErr: ErrHeaderMismatch,
		},
		{
			name:    "unsupported fee",
			input:   badRow,
			wantErr: cryptofolio.ErrUnsupportedFeeCurrency,
			want:    Stats{Rows: 2, Trades: 1, Inserted: 1},
		},
		{
			name:  "unsupported fee lenient",
			input: badRow,
			opts:  Options{Lenient: true},
			want:  Stats{Rows: 3, Skipped: 1, Trades: 2, Inserted: 2},
		},
		{
			name:    "missing fields",
			input:   shortRow,
			wantErr: cryptofolio.ErrMalformedRecord,
			want:    Stats{Rows: 3, Trades: 2, Inserted: 2},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := Import(ctx, strings.NewReader(tt.input), n, cryptofolio.NewLedger(), tt.opts)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Import() unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Import() error = %v, want %v", err, tt.wantErr)
			}
			if stats != tt.want {
				t.Errorf("Import() = %v, want %v", stats, tt.want)
			}
		})
	}
}

func TestImport_Semicolon(t *testing.T) {
	input := strings.ReplaceAll(kucoinExport, ",", ";")
	ledger := cryptofolio.NewLedger()
	stats, err := Import(context.Background(), strings.NewReader(input), &Kucoin{Config: cryptofolio.DefaultConfig()}, ledger, Options{Comma: ';'})
	if err != nil {
		t.Fatalf("Import() unexpected error: %v", err)
	}
	if stats.Inserted != 3 {
		t.Errorf("Import() inserted %d trades, want 3", stats.Inserted)
	}
}

package reconcile

import "testing"

func TestFormatMarketCap(t *testing.T) {
	tests := []struct {
		name    string
		value   float64
		country string
		want    string
	}{
		{"zero is N/A", 0, "KR", "N/A"},
		{"KR trillions", 1_500_000_000_000, "KR", "1.5조원"},
		{"KR hundreds of billions", 450_000_000_000, "KR", "4500억원"},
		{"KR below eok", 50_000_000, "KR", "50,000,000원"},
		{"US trillions", 2_500_000_000_000, "US", "$2.50T"},
		{"US billions", 3_200_000_000, "US", "$3.2B"},
		{"US millions", 4_500_000, "US", "$4.5M"},
		{"US small", 123_456, "US", "$123,456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMarketCap(tt.value, tt.country); got != tt.want {
				t.Errorf("FormatMarketCap(%v, %q) = %q, want %q", tt.value, tt.country, got, tt.want)
			}
		})
	}
}

func TestGroupDigits(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-98765, "-98,765"},
	}

	for _, tt := range tests {
		if got := groupDigits(tt.n); got != tt.want {
			t.Errorf("groupDigits(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

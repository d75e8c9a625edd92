package pricing

import "testing"

func TestConvert(t *testing.T) {
	cases := []struct {
		name       string
		price      float64
		delivery   float64
		rate       float64
		commission float64
		want       int64
	}{
		{
			name:  "rounds up to the next hundred",
			price: 66, delivery: 0, rate: 1, commission: 0,
			// 66 * 1.1 = 72.6
			want: 100,
		},
		{
			name:  "exact hundred stays",
			price: 90, delivery: 20, rate: 10, commission: 0,
			// (90 + 10) * 1.1 * 10 = 1100
			want: 1100,
		},
		{
			name:  "a kopeck over the hundred rounds up",
			price: 91, delivery: 0, rate: 1, commission: 0,
			// 91 * 1.1 = 100.1
			want: 200,
		},
		{
			name:  "half delivery is shared",
			price: 100, delivery: 50, rate: 1, commission: 0,
			// (100 + 25) * 1.1 = 137.5
			want: 200,
		},
		{
			name:  "typical order",
			price: 129.95, delivery: 20, rate: 100, commission: 10,
			// (129.95 + 10) * 1.1 * 100 * 1.1 = 16933.95
			want: 17000,
		},
		{
			name:  "zero price",
			price: 0, delivery: 0, rate: 100, commission: 10,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Convert(tc.price, tc.delivery, tc.rate, tc.commission)
			if got != tc.want {
				t.Fatalf("Convert(%v, %v, %v, %v) = %d, want %d",
					tc.price, tc.delivery, tc.rate, tc.commission, got, tc.want)
			}
		})
	}
}

func TestConvertAlwaysWholeHundreds(t *testing.T) {
	prices := []float64{9.99, 59.95, 104.3, 129.95, 250}
	for _, price := range prices {
		got := Convert(price, 18.4, 103.55, 12)
		if got%100 != 0 {
			t.Fatalf("Convert for price %v = %d, not a whole hundred", price, got)
		}
		if got <= 0 {
			t.Fatalf("Convert for price %v = %d, expected positive", price, got)
		}
	}
}

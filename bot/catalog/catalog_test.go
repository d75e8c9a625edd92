package catalog

import "testing"

func TestLookupsRoundTrip(t *testing.T) {
	for _, it := range Brands {
		got, ok := BrandByKey(it.Key)
		if !ok || got.Label != it.Label {
			t.Fatalf("BrandByKey(%q) = %+v, %v", it.Key, got, ok)
		}
		got, ok = BrandByLabel(it.Label)
		if !ok || got.Key != it.Key {
			t.Fatalf("BrandByLabel(%q) = %+v, %v", it.Label, got, ok)
		}
	}
	if _, ok := SexByKey("unknown"); ok {
		t.Fatal("SexByKey accepted an unknown key")
	}
	if _, ok := SizeByLabel("99"); ok {
		t.Fatal("SizeByLabel accepted an unknown label")
	}
}

func TestBrandsKeyboardTwoPerRow(t *testing.T) {
	markup := BrandsKeyboard()
	rows := markup.InlineKeyboard
	wantRows := (len(Brands) + 1) / 2
	if len(rows) != wantRows {
		t.Fatalf("expected %d rows, got %d", wantRows, len(rows))
	}
	for i, row := range rows[:len(rows)-1] {
		if len(row) != 2 {
			t.Fatalf("row %d has %d buttons, expected 2", i, len(row))
		}
	}
}

func TestSizesKeyboardThreePerRow(t *testing.T) {
	markup := SizesKeyboard()
	rows := markup.InlineKeyboard
	total := 0
	for i, row := range rows {
		if len(row) > 3 {
			t.Fatalf("row %d has %d buttons, expected at most 3", i, len(row))
		}
		total += len(row)
	}
	if total != len(Sizes) {
		t.Fatalf("keyboard holds %d buttons, expected %d", total, len(Sizes))
	}
}

func TestUnsubscribeKeyboardLayout(t *testing.T) {
	labels := []string{"Nike 27 Мужской", "Hoka 24,5 Женский"}
	markup := UnsubscribeKeyboard(labels)
	rows := markup.InlineKeyboard
	if len(rows) != len(labels)+1 {
		t.Fatalf("expected %d rows, got %d", len(labels)+1, len(rows))
	}
	for i, label := range labels {
		if rows[i][0].Text != label {
			t.Fatalf("row %d text = %q, want %q", i, rows[i][0].Text, label)
		}
	}
	last := rows[len(rows)-1][0]
	if last.Text != "Отписаться от всех" {
		t.Fatalf("last row text = %q", last.Text)
	}
}

func TestContactKeyboardEmptyURL(t *testing.T) {
	if markup := ContactKeyboard(""); markup != nil {
		t.Fatal("expected nil markup for empty url")
	}
	markup := ContactKeyboard("https://t.me/example")
	if markup == nil || len(markup.InlineKeyboard) != 1 {
		t.Fatalf("unexpected markup: %+v", markup)
	}
}

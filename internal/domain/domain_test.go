package domain

import (
	"reflect"
	"testing"
)

func TestGermanLegalExtract(t *testing.T) {
	d := NewGermanLegal()
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple paragraph with code",
			text: "Der Anspruch folgt aus § 823 BGB.",
			want: []string{"§ 823 BGB"},
		},
		{
			name: "paragraph with Absatz",
			text: "Nach § 280 Abs. 1 BGB ist Schadensersatz zu leisten.",
			want: []string{"§ 280 Abs. 1 BGB"},
		},
		{
			name: "double section sign",
			text: "Die §§ 433 ff. regeln den Kaufvertrag.",
			want: []string{"§§ 433"},
		},
		{
			name: "article citation",
			text: "Art. 2 Abs. 1 GG schützt die allgemeine Handlungsfreiheit.",
			want: []string{"Art. 2 Abs. 1 GG"},
		},
		{
			name: "court decision",
			text: "So bereits BGH, Urt. v. 12.03.2020 - VIII ZR 123/19.",
			want: []string{"BGH, Urt. v. 12.03.2020 - VIII ZR 123/19"},
		},
		{
			name: "bare court and code",
			text: "Das BVerfG hat die Norm am Maßstab des GG geprüft.",
			want: []string{"BVerfG", "GG"},
		},
		{
			name: "multiple citations in order",
			text: "§ 985 BGB und § 1004 BGB schützen das Eigentum.",
			want: []string{"§ 985 BGB", "§ 1004 BGB"},
		},
		{
			name: "duplicates preserved",
			text: "§ 433 BGB gilt. Auch hier gilt § 433 BGB.",
			want: []string{"§ 433 BGB", "§ 433 BGB"},
		},
		{
			name: "no citations",
			text: "Der Vertrag wurde mündlich geschlossen.",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.ExtractCitations(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractCitations(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestGermanLegalLongestMatchWins(t *testing.T) {
	d := NewGermanLegal()
	got := d.ExtractCitations("Maßgeblich ist § 280 Abs. 1 S. 2 BGB.")
	if len(got) != 1 {
		t.Fatalf("got %v, want a single combined citation", got)
	}
	if got[0] != "§ 280 Abs. 1 S. 2 BGB" {
		t.Errorf("got %q, want %q", got[0], "§ 280 Abs. 1 S. 2 BGB")
	}
}

func TestGenericExtract(t *testing.T) {
	d := NewGeneric()
	got := d.ExtractCitations("Frühe Arbeiten [1] und (Miller et al. 2019) zeigen dies; siehe auch [2].")
	want := []string{"[1]", "(Miller et al. 2019)", "[2]"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractCitations() = %v, want %v", got, want)
	}
}

func TestNewPreset(t *testing.T) {
	tests := []struct {
		preset  string
		name    string
		wantErr bool
	}{
		{"legal.german", "legal.german", false},
		{"", "legal.german", false},
		{"generic", "generic", false},
		{"medical", "", true},
	}
	for _, tt := range tests {
		d, err := New(tt.preset)
		if tt.wantErr {
			if err == nil {
				t.Errorf("New(%q) expected error", tt.preset)
			}
			continue
		}
		if err != nil {
			t.Errorf("New(%q) error = %v", tt.preset, err)
			continue
		}
		if d.Name() != tt.name {
			t.Errorf("New(%q).Name() = %q, want %q", tt.preset, d.Name(), tt.name)
		}
	}
}

package libby

import "testing"

func TestExtractISBN(t *testing.T) {
	tests := []struct {
		name    string
		formats []Format
		ids     []string
		want    string
	}{
		{
			name: "isbn field preferred",
			formats: []Format{
				{ID: FormatEBookOverdrive, ISBN: "9780000000001", Identifiers: []Identifier{{Type: "ISBN", Value: "9780000000002"}}},
			},
			ids:  []string{FormatEBookOverdrive},
			want: "9780000000001",
		},
		{
			name: "identifier fallback",
			formats: []Format{
				{ID: FormatMagazineOverDrive, Identifiers: []Identifier{
					{Type: "PublisherCatalogNumber", Value: "X1"},
					{Type: "ISBN", Value: "9780000000003"},
				}},
			},
			ids:  []string{FormatEBookOverdrive, FormatMagazineOverDrive},
			want: "9780000000003",
		},
		{
			name: "unwanted formats skipped",
			formats: []Format{
				{ID: "audiobook-overdrive", ISBN: "9780000000004"},
			},
			ids:  []string{FormatEBookOverdrive},
			want: "",
		},
		{
			name:    "no formats",
			formats: nil,
			ids:     []string{FormatEBookOverdrive},
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractISBN(tt.formats, tt.ids); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

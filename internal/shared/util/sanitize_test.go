package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"report.docx", "report.docx", false},
		{"  deck.pptx  ", "deck.pptx", false},
		{"a/b.docx", "a_b.docx", false},
		{`a\b.docx`, "a_b.docx", false},
		{"../etc/passwd.docx", "", true},
		{"   ", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeFileName(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
